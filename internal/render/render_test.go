package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"encoding/xml"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unitdesk/internal/binding"
	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

var canvasPage = coords.PageSize{Width: 1000, Height: 600}

func gallery(t *testing.T) schema.TemplateDocument {
	t.Helper()
	return schema.StarterGallery()[0]
}

func record(doc schema.TemplateDocument, data *binding.Context, target Target) []Op {
	rec := NewRecorder()
	New(nil).RenderTo(doc, data, target, rec)
	return rec.Ops()
}

func opsWhere(ops []Op, keep func(Op) bool) []Op {
	var out []Op
	for _, op := range ops {
		if keep(op) {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderIsDeterministic(t *testing.T) {
	doc := gallery(t)
	data := binding.Demo()
	r := New(nil)

	for _, target := range []Target{Interactive(canvasPage, 1.25), StaticPreview(), Print(coords.A4)} {
		a := record(doc, &data, target)
		b := record(doc, &data, target)
		assert.Equal(t, a, b, target.Kind)
	}

	for _, target := range []Target{Interactive(canvasPage, 1), StaticPreview()} {
		a, err := r.Render(doc, &data, target)
		require.NoError(t, err)
		b, err := r.Render(doc, &data, target)
		require.NoError(t, err)
		assert.Equal(t, a.Body, b.Body, target.Kind)
	}
}

func TestUnknownTypeRendersPlaceholder(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	doc.Components = []schema.TemplateComponent{
		{ID: "stamp-1", Type: "stamp", Position: schema.Position{X: 10, Y: 10}, Size: schema.Size{Width: 30, Height: 10}},
	}

	ops := record(doc, nil, Interactive(canvasPage, 1))
	dashed := opsWhere(ops, func(op Op) bool { return op.Op == "rect" && op.Dashed })
	texts := opsWhere(ops, func(op Op) bool { return op.Op == "text" })
	require.Len(t, dashed, 1)
	require.Len(t, texts, 1)
	assert.Equal(t, "stamp", texts[0].Text)

	for _, target := range []Target{Interactive(canvasPage, 1), StaticPreview(), Print(coords.Letter)} {
		art, err := New(nil).Render(doc, nil, target)
		require.NoError(t, err, target.Kind)
		assert.NotEmpty(t, art.Body)
	}
}

func TestComponentsDrawnInDocumentOrder(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	for _, typ := range []string{"zeta", "alpha", "mid", "alpha-2"} {
		doc.Components = append(doc.Components, schema.TemplateComponent{
			ID: typ, Type: typ, Position: schema.Position{X: 10, Y: 10}, Size: schema.Size{Width: 50, Height: 10},
		})
	}

	for _, target := range []Target{Interactive(canvasPage, 1), StaticPreview(), Print(coords.A4)} {
		var got []string
		for _, op := range record(doc, nil, target) {
			if op.Op == "text" {
				got = append(got, op.Text)
			}
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid", "alpha-2"}, got, target.Kind)
	}
}

func TestOverlappingTotalsKeepPositionAcrossTargets(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	doc.Layout.Colors.Primary = "#2563eb"
	for _, id := range []string{"totals-1", "totals-2"} {
		doc.Components = append(doc.Components, schema.TemplateComponent{
			ID: id, Type: schema.TypeTotals,
			Position: schema.Position{X: 60, Y: 70}, Size: schema.Size{Width: 35, Height: 12},
		})
	}
	data := binding.Demo()
	primary := func(op Op) bool { return op.Op == "rect" && op.Fill == "#2563eb" }

	screen := opsWhere(record(doc, &data, Interactive(canvasPage, 1)), primary)
	paper := opsWhere(record(doc, &data, Print(coords.A4)), primary)
	require.Len(t, screen, 2)
	require.Len(t, paper, 2)

	// Same location on each target, so the second one covers the first.
	assert.Equal(t, screen[0], screen[1])
	assert.Equal(t, paper[0], paper[1])

	assert.InDelta(t, screen[0].X/canvasPage.Width, paper[0].X/coords.A4.Width, 1e-4)
	assert.InDelta(t, screen[0].W/canvasPage.Width, paper[0].W/coords.A4.Width, 1e-4)
	assert.InDelta(t, 0.60, paper[0].X/coords.A4.Width, 1e-4)
}

func TestEmptyLineItemsStillRenderHeader(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	doc.Components = []schema.TemplateComponent{
		{ID: "line-items-1", Type: schema.TypeLineItems, Position: schema.Position{X: 5, Y: 30}, Size: schema.Size{Width: 90, Height: 30}},
	}
	data := binding.Demo()
	data.LineItems = []binding.LineItem{}

	ops := record(doc, &data, Print(coords.A4))
	var texts []string
	for _, op := range ops {
		if op.Op == "text" {
			texts = append(texts, op.Text)
		}
	}
	assert.Equal(t, []string{"Description", "Qty", "Rate", "Amount"}, texts)
	assert.Empty(t, opsWhere(ops, func(op Op) bool { return op.Op == "line" }))
}

func TestMissingBindingFieldsDoNotBlankDocument(t *testing.T) {
	doc := gallery(t)
	data := binding.Demo()
	data.Recipient = binding.Party{}
	data.Invoice.DueDate = ""

	ops := record(doc, &data, StaticPreview())
	var texts []string
	for _, op := range ops {
		texts = append(texts, op.Text)
	}
	assert.Contains(t, texts, "Harbourside Self Storage")
	assert.Contains(t, texts, "Bill To")
	assert.Contains(t, texts, "Due Date: ")
}

func TestOutOfPageBoxIsNotCorrected(t *testing.T) {
	doc := schema.CreateEmptyDocument()
	doc.Components = []schema.TemplateComponent{
		{ID: "x", Type: "ghost", Position: schema.Position{X: 90, Y: 95}, Size: schema.Size{Width: 40, Height: 10}},
	}

	ops := record(doc, nil, Print(coords.A4))
	dashed := opsWhere(ops, func(op Op) bool { return op.Dashed })
	require.Len(t, dashed, 1)
	assert.Greater(t, dashed[0].X+dashed[0].W, coords.A4.Width)

	_, err := New(nil).Render(doc, nil, Print(coords.A4))
	assert.NoError(t, err)
}

func TestInteractiveOverlays(t *testing.T) {
	doc := gallery(t)
	target := Interactive(canvasPage, 1)
	target.ShowGrid = true
	target.Selected = "totals-1"

	ops := record(doc, nil, target)
	lines := opsWhere(ops, func(op Op) bool { return op.Op == "line" && op.Stroke == "#e5e7eb" })
	assert.GreaterOrEqual(t, len(lines), 38)

	last := ops[len(ops)-1]
	assert.Equal(t, "rect", last.Op)
	assert.True(t, last.Dashed)
	assert.Equal(t, doc.Layout.Colors.Primary, last.Stroke)
	assert.InDelta(t, 600, last.X, 1e-6)
}

func TestRenderArtifacts(t *testing.T) {
	doc := gallery(t)
	data := binding.Demo()
	data.Company.Name = "Smith & Sons <Storage>"
	r := New(nil)

	art, err := r.Render(doc, &data, Interactive(canvasPage, 2))
	require.NoError(t, err)
	assert.Equal(t, "application/json", art.ContentType)
	assert.Equal(t, 2000.0, art.Width)
	var list DisplayList
	require.NoError(t, json.Unmarshal(art.Body, &list))
	assert.Equal(t, 1200.0, list.Height)
	assert.NotEmpty(t, list.Ops)

	art, err = r.Render(doc, &data, StaticPreview())
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", art.ContentType)
	body := string(art.Body)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Smith &amp; Sons &lt;Storage&gt;")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(body), "</svg>"))

	art, err = r.Render(doc, &data, Print(coords.Letter))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", art.ContentType)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
	assert.Equal(t, coords.Letter.Width, art.Width)
}

func TestRenderUnknownTarget(t *testing.T) {
	_, err := New(nil).Render(schema.CreateEmptyDocument(), nil, Target{Kind: "fax"})
	assert.Error(t, err)
}

func TestPrintEmbedsDataURLLogo(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	raw, kind, ok := decodeDataURL(src)
	require.True(t, ok)
	assert.Equal(t, "PNG", kind)
	assert.Equal(t, buf.Bytes(), raw)

	_, _, ok = decodeDataURL("https://example.com/logo.png")
	assert.False(t, ok)
	_, _, ok = decodeDataURL("data:image/png;base64,!!!")
	assert.False(t, ok)

	data := binding.Demo()
	data.CompanyLogo = src
	art, err := New(nil).Render(gallery(t), &data, Print(coords.A4))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.Body, []byte("%PDF-")))
}

func TestColorAdapters(t *testing.T) {
	c, ok := parseHex("#2563eb")
	require.True(t, ok)
	assert.Equal(t, rgb{R: 0x25, G: 0x63, B: 0xeb}, c)

	c, ok = parseHex("#fff")
	require.True(t, ok)
	assert.Equal(t, rgb{R: 255, G: 255, B: 255}, c)

	_, ok = parseHex("blue")
	assert.False(t, ok)

	assert.Equal(t, "#0a0b0c", toCSS("#0A0B0C"))
	assert.Equal(t, "#000000", toCSS("nope"))

	calls := 0
	p := newPalette(schema.DefaultColors, func(s string) rgb { calls++; return toRGB(s) })
	before := calls
	p.get(schema.DefaultColors.Primary)
	p.get(schema.DefaultColors.Background)
	assert.Equal(t, before, calls)
	p.get("#123456")
	p.get("#123456")
	assert.Equal(t, before+1, calls)
}

func TestPreviewLogoCannotInjectMarkup(t *testing.T) {
	data := binding.Demo()
	for _, logo := range []string{
		`x" onload="alert(1)`,
		`https://example.com/logo.png"/><script>alert(1)</script>`,
		"data:image/png;base64,\"<>",
	} {
		data.CompanyLogo = logo
		art, err := New(nil).Render(gallery(t), &data, StaticPreview())
		require.NoError(t, err)

		body := string(art.Body)
		assert.NotContains(t, body, "onload", logo)
		assert.NotContains(t, body, "<script", logo)
		assert.NotContains(t, body, "<image", logo)

		dec := xml.NewDecoder(bytes.NewReader(art.Body))
		for {
			_, err := dec.Token()
			if err == io.EOF {
				break
			}
			require.NoError(t, err, logo)
		}
	}
}

func TestPreviewEmbedsDataURLLogo(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	data := binding.Demo()
	data.CompanyLogo = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	art, err := New(nil).Render(gallery(t), &data, StaticPreview())
	require.NoError(t, err)
	assert.Contains(t, string(art.Body), `xlink:href="`+data.CompanyLogo+`"`)
}
