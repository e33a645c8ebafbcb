package registry

import "unitdesk/internal/coords"

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Colors in styles are hex strings; each surface converts them into its own
// representation.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color string
	Align Align
}

type RectStyle struct {
	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
}

type LineStyle struct {
	Color  string
	Width  float64
	Dashed bool
}

// Surface is the set of drawing primitives a render target exposes, in the
// target's own units. Text is anchored at p: p.Y is the top of the line and
// p.X is the left edge, centre or right edge depending on Align.
type Surface interface {
	DrawText(p coords.Point, text string, style TextStyle)
	DrawRect(box coords.Box, style RectStyle)
	DrawImage(box coords.Box, source string)
	DrawLine(from, to coords.Point, style LineStyle)
}
