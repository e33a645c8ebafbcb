// Package render draws a template document onto one of the output targets
// through the component registry. The same pipeline serves every target;
// only the surface differs.
package render

import (
	"fmt"

	"unitdesk/internal/binding"
	"unitdesk/internal/coords"
	"unitdesk/internal/registry"
	"unitdesk/internal/schema"
)

type TargetKind string

const (
	TargetInteractive   TargetKind = "interactive"
	TargetStaticPreview TargetKind = "static-preview"
	TargetPrint         TargetKind = "print"
)

// Target describes an output surface. Page is in the target's own units
// before zoom: pixels for screen targets, points for print.
type Target struct {
	Kind     TargetKind
	Page     coords.PageSize
	Zoom     float64
	ShowGrid bool
	GridStep float64
	Selected string
}

// Interactive is the editing canvas. Grid and selection are view-only.
func Interactive(page coords.PageSize, zoom float64) Target {
	return Target{Kind: TargetInteractive, Page: page, Zoom: zoom, GridStep: 5}
}

func StaticPreview() Target {
	return Target{Kind: TargetStaticPreview, Page: coords.PreviewFrame, Zoom: 1}
}

func Print(paper coords.PageSize) Target {
	return Target{Kind: TargetPrint, Page: paper, Zoom: 1}
}

func (t Target) zoom() float64 {
	if t.Zoom <= 0 {
		return 1
	}
	return t.Zoom
}

// Artifact is the rendered output of one Render call.
type Artifact struct {
	Kind        TargetKind `json:"kind"`
	ContentType string     `json:"content_type"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	Body        []byte     `json:"-"`
}

// Canvas is a Surface that produces a finished artifact.
type Canvas interface {
	registry.Surface
	Begin(page coords.PageSize, theme schema.ColorTheme)
	Finish() ([]byte, error)
	ContentType() string
}

type Renderer struct {
	reg *registry.Registry
}

// New returns a renderer drawing through reg, or through the default
// registry when reg is nil.
func New(reg *registry.Registry) *Renderer {
	if reg == nil {
		reg = registry.Default()
	}
	return &Renderer{reg: reg}
}

func canvasFor(kind TargetKind) (Canvas, error) {
	switch kind {
	case TargetInteractive:
		return NewRecorder(), nil
	case TargetStaticPreview:
		return newSVGCanvas(), nil
	case TargetPrint:
		return newPDFCanvas(), nil
	}
	return nil, fmt.Errorf("unknown render target %q", kind)
}

// Render draws doc for target t. The only failures come from the output
// surface itself; document content never makes a render fail.
func (r *Renderer) Render(doc schema.TemplateDocument, data *binding.Context, t Target) (*Artifact, error) {
	c, err := canvasFor(t.Kind)
	if err != nil {
		return nil, err
	}
	page := t.Page.Scaled(t.zoom())
	c.Begin(page, doc.Layout.Colors)
	r.RenderTo(doc, data, t, c)
	body, err := c.Finish()
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", t.Kind, err)
	}
	return &Artifact{
		Kind:        t.Kind,
		ContentType: c.ContentType(),
		Width:       page.Width,
		Height:      page.Height,
		Body:        body,
	}, nil
}

// RenderTo runs the draw pipeline against any surface. Components are drawn
// strictly in document order.
func (r *Renderer) RenderTo(doc schema.TemplateDocument, data *binding.Context, t Target, s registry.Surface) {
	if data == nil {
		data = &binding.Context{}
	}
	zoom := t.zoom()
	page := t.Page.Scaled(zoom)
	scale := page.Width / registry.ReferenceWidth
	theme := doc.Layout.Colors

	s.DrawRect(page.Bounds(), registry.RectStyle{Fill: theme.Background})
	if t.ShowGrid {
		drawGrid(s, page, t.GridStep, scale)
	}

	var selected *coords.Box
	for _, c := range doc.Components {
		box := coords.ToTargetUnits(c.Position, c.Size, t.Page, zoom)
		ctx := &registry.DrawContext{
			Type:    c.Type,
			Box:     box,
			Theme:   theme,
			Spacing: doc.Layout.Spacing,
			Data:    data,
			Config:  c.Config,
			Scale:   scale,
			Surface: s,
		}
		r.reg.Lookup(c.Type).Draw(ctx)
		if t.Selected != "" && c.ID == t.Selected {
			b := box
			selected = &b
		}
	}

	if selected != nil {
		s.DrawRect(*selected, registry.RectStyle{Stroke: theme.Primary, StrokeWidth: 2 * scale, Dashed: true})
	}
}

func drawGrid(s registry.Surface, page coords.PageSize, step, scale float64) {
	if step <= 0 || step >= 100 {
		return
	}
	style := registry.LineStyle{Color: registry.ColorRule, Width: 0.5 * scale}
	for p := step; p < 100; p += step {
		x := p / 100 * page.Width
		y := p / 100 * page.Height
		s.DrawLine(coords.Point{X: x, Y: 0}, coords.Point{X: x, Y: page.Height}, style)
		s.DrawLine(coords.Point{X: 0, Y: y}, coords.Point{X: page.Width, Y: y}, style)
	}
}
