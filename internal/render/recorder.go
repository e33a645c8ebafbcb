package render

import (
	"encoding/json"
	"math"

	"unitdesk/internal/coords"
	"unitdesk/internal/registry"
	"unitdesk/internal/schema"
)

// Op is one primitive draw call in a display list.
type Op struct {
	Op          string  `json:"op"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w,omitempty"`
	H           float64 `json:"h,omitempty"`
	X2          float64 `json:"x2,omitempty"`
	Y2          float64 `json:"y2,omitempty"`
	Text        string  `json:"text,omitempty"`
	Size        float64 `json:"size,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
	Align       string  `json:"align,omitempty"`
	Color       string  `json:"color,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
	Src         string  `json:"src,omitempty"`
}

type DisplayList struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ops    []Op    `json:"ops"`
}

// Recorder is the interactive target's surface: it records every primitive
// as an Op so a browser canvas can replay it. It is also handy in tests.
type Recorder struct {
	list   DisplayList
	colors *palette[string]
}

func NewRecorder() *Recorder {
	return &Recorder{
		list:   DisplayList{Ops: []Op{}},
		colors: newPalette(schema.DefaultColors, toCSS),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func (r *Recorder) color(hex string) string {
	if hex == "" {
		return ""
	}
	return r.colors.get(hex)
}

func (r *Recorder) Begin(page coords.PageSize, theme schema.ColorTheme) {
	r.list = DisplayList{Width: round3(page.Width), Height: round3(page.Height), Ops: []Op{}}
	r.colors = newPalette(theme, toCSS)
}

func (r *Recorder) DrawText(p coords.Point, text string, s registry.TextStyle) {
	r.list.Ops = append(r.list.Ops, Op{
		Op: "text", X: round3(p.X), Y: round3(p.Y), Text: text,
		Size: round3(s.Size), Bold: s.Bold, Align: s.Align.String(), Color: r.color(s.Color),
	})
}

func (r *Recorder) DrawRect(b coords.Box, s registry.RectStyle) {
	r.list.Ops = append(r.list.Ops, Op{
		Op: "rect", X: round3(b.X), Y: round3(b.Y), W: round3(b.Width), H: round3(b.Height),
		Fill: r.color(s.Fill), Stroke: r.color(s.Stroke), StrokeWidth: round3(s.StrokeWidth), Dashed: s.Dashed,
	})
}

func (r *Recorder) DrawImage(b coords.Box, source string) {
	r.list.Ops = append(r.list.Ops, Op{
		Op: "image", X: round3(b.X), Y: round3(b.Y), W: round3(b.Width), H: round3(b.Height), Src: source,
	})
}

func (r *Recorder) DrawLine(from, to coords.Point, s registry.LineStyle) {
	r.list.Ops = append(r.list.Ops, Op{
		Op: "line", X: round3(from.X), Y: round3(from.Y), X2: round3(to.X), Y2: round3(to.Y),
		Stroke: r.color(s.Color), StrokeWidth: round3(s.Width), Dashed: s.Dashed,
	})
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op {
	return r.list.Ops
}

func (r *Recorder) DisplayList() DisplayList {
	return r.list
}

func (r *Recorder) Finish() ([]byte, error) {
	return json.Marshal(r.list)
}

func (r *Recorder) ContentType() string {
	return "application/json"
}
