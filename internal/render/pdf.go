package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"unitdesk/internal/coords"
	"unitdesk/internal/registry"
	"unitdesk/internal/schema"
)

// pdfEpoch pins the document dates so identical input gives identical bytes.
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// pdfCanvas renders the print target: a single fixed page in points.
// Content past the page edge is clipped by the page itself.
type pdfCanvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	colors *palette[rgb]
	images int
}

func newPDFCanvas() *pdfCanvas {
	return &pdfCanvas{}
}

func (c *pdfCanvas) Begin(page coords.PageSize, theme schema.ColorTheme) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("unitdesk", true)
	pdf.AddPage()

	c.pdf = pdf
	c.tr = pdf.UnicodeTranslatorFromDescriptor("")
	c.colors = newPalette(theme, toRGB)
	c.images = 0
}

func (c *pdfCanvas) DrawText(p coords.Point, text string, s registry.TextStyle) {
	if text == "" {
		return
	}
	style := ""
	if s.Bold {
		style = "B"
	}
	c.pdf.SetFont("Helvetica", style, s.Size)
	col := c.colors.get(s.Color)
	c.pdf.SetTextColor(col.R, col.G, col.B)

	txt := c.tr(text)
	x := p.X
	switch s.Align {
	case registry.AlignCenter:
		x -= c.pdf.GetStringWidth(txt) / 2
	case registry.AlignRight:
		x -= c.pdf.GetStringWidth(txt)
	}
	c.pdf.Text(x, p.Y+s.Size*0.8, txt)
}

func (c *pdfCanvas) DrawRect(b coords.Box, s registry.RectStyle) {
	op := ""
	if s.Fill != "" {
		col := c.colors.get(s.Fill)
		c.pdf.SetFillColor(col.R, col.G, col.B)
		op += "F"
	}
	if s.Stroke != "" {
		col := c.colors.get(s.Stroke)
		c.pdf.SetDrawColor(col.R, col.G, col.B)
		c.pdf.SetLineWidth(s.StrokeWidth)
		op += "D"
	}
	if op == "" {
		return
	}
	c.dash(s.Dashed)
	c.pdf.Rect(b.X, b.Y, b.Width, b.Height, op)
	c.dash(false)
}

func (c *pdfCanvas) DrawLine(from, to coords.Point, s registry.LineStyle) {
	col := c.colors.get(s.Color)
	c.pdf.SetDrawColor(col.R, col.G, col.B)
	c.pdf.SetLineWidth(s.Width)
	c.dash(s.Dashed)
	c.pdf.Line(from.X, from.Y, to.X, to.Y)
	c.dash(false)
}

func (c *pdfCanvas) dash(on bool) {
	if on {
		c.pdf.SetDashPattern([]float64{4, 3}, 0)
		return
	}
	c.pdf.SetDashPattern([]float64{}, 0)
}

// DrawImage embeds data: URLs. Remote sources and unreadable data fall back
// to a placeholder box since the renderer does no I/O.
func (c *pdfCanvas) DrawImage(b coords.Box, source string) {
	if raw, kind, ok := decodeDataURL(source); ok {
		c.images++
		name := fmt.Sprintf("img%d", c.images)
		opts := fpdf.ImageOptions{ImageType: kind}
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
		if !c.pdf.Err() {
			c.pdf.ImageOptions(name, b.X, b.Y, b.Width, b.Height, false, opts, 0, "")
			return
		}
		// fpdf rejects some valid images (interlaced PNG, for one).
		c.pdf.ClearError()
	}
	c.DrawRect(b, registry.RectStyle{Fill: registry.ColorRule, Stroke: registry.ColorMuted, StrokeWidth: 0.75, Dashed: true})
	line := registry.LineStyle{Color: registry.ColorMuted, Width: 0.75}
	c.DrawLine(coords.Point{X: b.X, Y: b.Y}, coords.Point{X: b.Right(), Y: b.Bottom()}, line)
	c.DrawLine(coords.Point{X: b.Right(), Y: b.Y}, coords.Point{X: b.X, Y: b.Bottom()}, line)
}

// decodeDataURL returns the image bytes and fpdf image type of a base64
// data URL whose payload decodes as PNG, JPEG or GIF.
func decodeDataURL(src string) ([]byte, string, bool) {
	if !strings.HasPrefix(src, "data:") {
		return nil, "", false
	}
	meta, payload, found := strings.Cut(src[len("data:"):], ",")
	if !found || !strings.HasSuffix(meta, ";base64") {
		return nil, "", false
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", false
	}
	switch format {
	case "png":
		return raw, "PNG", true
	case "jpeg":
		return raw, "JPG", true
	case "gif":
		return raw, "GIF", true
	}
	return nil, "", false
}

func (c *pdfCanvas) Finish() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *pdfCanvas) ContentType() string {
	return "application/pdf"
}
