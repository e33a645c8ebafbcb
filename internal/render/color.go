package render

import (
	"strconv"
	"strings"

	"unitdesk/internal/registry"
	"unitdesk/internal/schema"
)

type rgb struct{ R, G, B int }

// parseHex accepts #rgb and #rrggbb. Anything else yields ok=false.
func parseHex(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, true
}

func toRGB(s string) rgb {
	c, _ := parseHex(s)
	return c
}

func toCSS(s string) string {
	c, ok := parseHex(s)
	if !ok {
		return "#000000"
	}
	return "#" + hex2(c.R) + hex2(c.G) + hex2(c.B)
}

func hex2(v int) string {
	s := strconv.FormatInt(int64(v), 16)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// palette converts hex colors into a surface's native representation. The
// theme slots and neutral colors are converted up front when a render
// starts; anything else is converted on first use and cached.
type palette[T any] struct {
	convert func(string) T
	cache   map[string]T
}

func newPalette[T any](theme schema.ColorTheme, convert func(string) T) *palette[T] {
	p := &palette[T]{convert: convert, cache: make(map[string]T, 8)}
	for _, c := range []string{
		theme.Primary, theme.Secondary, theme.Success, theme.Background,
		registry.ColorInk, registry.ColorMuted, registry.ColorRule,
	} {
		p.get(c)
	}
	return p
}

func (p *palette[T]) get(hex string) T {
	if v, ok := p.cache[hex]; ok {
		return v
	}
	v := p.convert(hex)
	p.cache[hex] = v
	return v
}
