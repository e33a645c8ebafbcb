package render

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"unitdesk/internal/coords"
	"unitdesk/internal/registry"
	"unitdesk/internal/schema"
)

const svgFont = "font-family:Helvetica,Arial,sans-serif"

// svgCanvas renders the static preview. Coordinates are CSS pixels; the
// root element clips anything outside the page.
type svgCanvas struct {
	buf    bytes.Buffer
	doc    *svg.SVG
	colors *palette[string]
}

func newSVGCanvas() *svgCanvas {
	return &svgCanvas{}
}

func px(v float64) int {
	return int(math.Round(v))
}

func (c *svgCanvas) Begin(page coords.PageSize, theme schema.ColorTheme) {
	c.buf.Reset()
	c.colors = newPalette(theme, toCSS)
	c.doc = svg.New(&c.buf)
	w, h := px(page.Width), px(page.Height)
	c.doc.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
}

func (c *svgCanvas) paint(hex string) string {
	if hex == "" {
		return "none"
	}
	return c.colors.get(hex)
}

func (c *svgCanvas) DrawText(p coords.Point, text string, s registry.TextStyle) {
	if text == "" {
		return
	}
	style := []string{
		svgFont,
		fmt.Sprintf("font-size:%.2fpx", s.Size),
		"fill:" + c.paint(s.Color),
	}
	if s.Bold {
		style = append(style, "font-weight:bold")
	}
	switch s.Align {
	case registry.AlignCenter:
		style = append(style, "text-anchor:middle")
	case registry.AlignRight:
		style = append(style, "text-anchor:end")
	}
	c.doc.Text(px(p.X), px(p.Y+s.Size*0.8), text, strings.Join(style, ";"))
}

func (c *svgCanvas) DrawRect(b coords.Box, s registry.RectStyle) {
	style := []string{"fill:" + c.paint(s.Fill)}
	if s.Stroke != "" {
		style = append(style, "stroke:"+c.paint(s.Stroke), fmt.Sprintf("stroke-width:%.2f", s.StrokeWidth))
		if s.Dashed {
			style = append(style, "stroke-dasharray:4,3")
		}
	}
	c.doc.Rect(px(b.X), px(b.Y), px(b.Width), px(b.Height), strings.Join(style, ";"))
}

var imageMIME = map[string]string{"PNG": "image/png", "JPG": "image/jpeg", "GIF": "image/gif"}

// DrawImage embeds data: URLs re-encoded from their decoded bytes. Anything
// else gets the placeholder, same as print.
func (c *svgCanvas) DrawImage(b coords.Box, source string) {
	if raw, kind, ok := decodeDataURL(source); ok {
		href := "data:" + imageMIME[kind] + ";base64," + base64.StdEncoding.EncodeToString(raw)
		c.doc.Image(px(b.X), px(b.Y), px(b.Width), px(b.Height), xmlAttr(href), `preserveAspectRatio="xMidYMid meet"`)
		return
	}
	c.DrawRect(b, registry.RectStyle{Fill: registry.ColorRule, Stroke: registry.ColorMuted, StrokeWidth: 1, Dashed: true})
	line := registry.LineStyle{Color: registry.ColorMuted, Width: 1}
	c.DrawLine(coords.Point{X: b.X, Y: b.Y}, coords.Point{X: b.Right(), Y: b.Bottom()}, line)
	c.DrawLine(coords.Point{X: b.Right(), Y: b.Y}, coords.Point{X: b.X, Y: b.Bottom()}, line)
}

// xmlAttr escapes s for a double-quoted attribute; svgo writes hrefs verbatim.
func xmlAttr(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func (c *svgCanvas) DrawLine(from, to coords.Point, s registry.LineStyle) {
	style := fmt.Sprintf("stroke:%s;stroke-width:%.2f", c.paint(s.Color), s.Width)
	if s.Dashed {
		style += ";stroke-dasharray:4,3"
	}
	c.doc.Line(px(from.X), px(from.Y), px(to.X), px(to.Y), style)
}

func (c *svgCanvas) Finish() ([]byte, error) {
	c.doc.End()
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.Bytes())
	return out, nil
}

func (c *svgCanvas) ContentType() string {
	return "image/svg+xml"
}
