// Package registry maps component type tags to their authoring label and
// draw procedure. Draw procedures only talk to a Surface, so one descriptor
// serves the canvas, the preview and the print document.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"unitdesk/internal/binding"
	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

var (
	ErrDuplicateType     = errors.New("component type already registered")
	ErrInvalidDescriptor = errors.New("invalid component descriptor")
)

// ReferenceWidth is the page width, in points, at which Scale is 1.
const ReferenceWidth = 595.28

type DrawFunc func(ctx *DrawContext)

type Descriptor struct {
	Label string
	Icon  string
	Draw  DrawFunc
}

// DrawContext carries everything a draw procedure may read. Box is already
// in target units.
type DrawContext struct {
	Type    string
	Box     coords.Box
	Theme   schema.ColorTheme
	Spacing schema.SpacingKind
	Data    *binding.Context
	Config  map[string]any
	Scale   float64
	Surface Surface
}

// Font scales a point size to target units.
func (c *DrawContext) Font(pt float64) float64 {
	if c.Scale <= 0 {
		return pt
	}
	return pt * c.Scale
}

// Pad is the inner padding of a component box for the document's spacing.
func (c *DrawContext) Pad() float64 {
	switch c.Spacing {
	case schema.SpacingCompact:
		return c.Font(3)
	case schema.SpacingWide:
		return c.Font(9)
	default:
		return c.Font(6)
	}
}

func (c *DrawContext) data() *binding.Context {
	if c.Data == nil {
		return &binding.Context{}
	}
	return c.Data
}

type Registry struct {
	mu    sync.RWMutex
	types map[string]Descriptor
	order []string
}

func New() *Registry {
	return &Registry{types: make(map[string]Descriptor)}
}

// Register adds a type. Entries are never replaced or removed.
func (r *Registry) Register(typ string, d Descriptor) error {
	if typ == "" || d.Draw == nil {
		return fmt.Errorf("%w: %q", ErrInvalidDescriptor, typ)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[typ]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateType, typ)
	}
	r.types[typ] = d
	r.order = append(r.order, typ)
	return nil
}

// Lookup returns the descriptor for typ, or a placeholder descriptor when
// the type is not registered.
func (r *Registry) Lookup(typ string) Descriptor {
	r.mu.RLock()
	d, ok := r.types[typ]
	r.mu.RUnlock()
	if !ok {
		return Fallback(typ)
	}
	return d
}

func (r *Registry) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[typ]
	return ok
}

// Types lists registered tags in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default is the process-wide registry holding the built-in types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultReg = New()
		if err := RegisterBuiltins(defaultReg); err != nil {
			panic(err)
		}
	})
	return defaultReg
}

// Fallback draws a dashed box labelled with the raw type tag.
func Fallback(typ string) Descriptor {
	return Descriptor{
		Label: typ,
		Icon:  "box",
		Draw: func(ctx *DrawContext) {
			b := ctx.Box
			ctx.Surface.DrawRect(b, RectStyle{Stroke: ColorMuted, StrokeWidth: ctx.Font(0.75), Dashed: true})
			size := ctx.Font(9)
			ctx.Surface.DrawText(
				coords.Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2 - size/2},
				fit(typ, b.Width, size),
				TextStyle{Size: size, Color: ColorMuted, Align: AlignCenter},
			)
		},
	}
}
