// Package coords maps percentage-based template positions to the absolute
// units of a render surface and back.
package coords

import "unitdesk/internal/schema"

// PageSize is the size of a target page in that target's units.
type PageSize struct {
	Name   string  `json:"name,omitempty"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Paper sizes in points (1" = 72pt).
var (
	A4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// PreviewFrame is the fixed static preview size in CSS pixels (A4 at 96dpi).
var PreviewFrame = PageSize{Name: "preview", Width: 794, Height: 1123}

// PaperByName resolves a paper name, defaulting to A4.
func PaperByName(name string) PageSize {
	switch name {
	case "Letter", "letter":
		return Letter
	default:
		return A4
	}
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Box) Right() float64  { return b.X + b.Width }
func (b Box) Bottom() float64 { return b.Y + b.Height }

func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Inset shrinks the box by d on every side.
func (b Box) Inset(d float64) Box {
	w, h := b.Width-2*d, b.Height-2*d
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Box{X: b.X + d, Y: b.Y + d, Width: w, Height: h}
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampPercent(v float64) float64 { return Clamp(v, 0, 100) }

func effectiveZoom(zoom float64) float64 {
	if zoom <= 0 {
		return 1
	}
	return zoom
}

// ToTargetUnits converts a stored position and size into an absolute box on
// a page of the given size. Inputs are clamped to [0,100] first; a box that
// extends past the page edge is returned as is.
func ToTargetUnits(pos schema.Position, size schema.Size, page PageSize, zoom float64) Box {
	z := effectiveZoom(zoom)
	return Box{
		X:      clampPercent(pos.X) / 100 * page.Width * z,
		Y:      clampPercent(pos.Y) / 100 * page.Height * z,
		Width:  clampPercent(size.Width) / 100 * page.Width * z,
		Height: clampPercent(size.Height) / 100 * page.Height * z,
	}
}

// FromTargetUnits converts a pointer position on the surface back into a
// clamped percentage position.
func FromTargetUnits(p Point, page PageSize, zoom float64) schema.Position {
	z := effectiveZoom(zoom)
	if page.Width <= 0 || page.Height <= 0 {
		return schema.Position{}
	}
	return schema.Position{
		X: clampPercent(p.X / (page.Width * z) * 100),
		Y: clampPercent(p.Y / (page.Height * z) * 100),
	}
}

// SizeFromTargetUnits is the size counterpart of FromTargetUnits.
func SizeFromTargetUnits(width, height float64, page PageSize, zoom float64) schema.Size {
	z := effectiveZoom(zoom)
	if page.Width <= 0 || page.Height <= 0 {
		return schema.Size{}
	}
	return schema.Size{
		Width:  clampPercent(width / (page.Width * z) * 100),
		Height: clampPercent(height / (page.Height * z) * 100),
	}
}

// Scaled returns the page size as displayed at zoom.
func (p PageSize) Scaled(zoom float64) PageSize {
	z := effectiveZoom(zoom)
	return PageSize{Name: p.Name, Width: p.Width * z, Height: p.Height * z}
}

// Bounds is the page rectangle anchored at the origin.
func (p PageSize) Bounds() Box {
	return Box{Width: p.Width, Height: p.Height}
}
