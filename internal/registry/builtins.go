package registry

import (
	"strings"
	"unicode/utf8"

	"unitdesk/internal/binding"
	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

// Neutral colors used alongside the document theme.
const (
	ColorInk   = "#111827"
	ColorMuted = "#6b7280"
	ColorRule  = "#e5e7eb"
)

const lineHeight = 1.4

// RegisterBuiltins registers the invoice component types.
func RegisterBuiltins(r *Registry) error {
	builtins := []struct {
		typ string
		d   Descriptor
	}{
		{schema.TypeHeader, Descriptor{Label: "Header", Icon: "building", Draw: drawHeader}},
		{schema.TypeCustomer, Descriptor{Label: "Customer", Icon: "user", Draw: drawCustomer}},
		{schema.TypeInvoiceDetails, Descriptor{Label: "Invoice Details", Icon: "file-text", Draw: drawInvoiceDetails}},
		{schema.TypeLineItems, Descriptor{Label: "Line Items", Icon: "table", Draw: drawLineItems}},
		{schema.TypeTotals, Descriptor{Label: "Totals", Icon: "calculator", Draw: drawTotals}},
		{schema.TypePaymentTerms, Descriptor{Label: "Payment Terms", Icon: "credit-card", Draw: drawPaymentTerms}},
		{schema.TypeFooter, Descriptor{Label: "Footer", Icon: "align-center", Draw: drawFooter}},
	}
	for _, b := range builtins {
		if err := r.Register(b.typ, b.d); err != nil {
			return err
		}
	}
	return nil
}

func configString(cfg map[string]any, key, def string) string {
	if s, ok := cfg[key].(string); ok && s != "" {
		return s
	}
	return def
}

func configBool(cfg map[string]any, key string, def bool) bool {
	if b, ok := cfg[key].(bool); ok {
		return b
	}
	return def
}

// fit truncates text to roughly fit width, assuming an average glyph
// advance of half the font size.
func fit(text string, width, size float64) string {
	if size <= 0 || width <= 0 {
		return ""
	}
	limit := int(width / (size * 0.5))
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	if limit <= 1 {
		return ""
	}
	r := []rune(text)
	return string(r[:limit-1]) + "…"
}

// column writes lines top-down from y and returns the y below the last line.
func column(ctx *DrawContext, x, y float64, lines []string, style TextStyle, width float64) float64 {
	for _, l := range lines {
		if l == "" {
			continue
		}
		ctx.Surface.DrawText(coords.Point{X: x, Y: y}, fit(l, width, style.Size), style)
		y += style.Size * lineHeight
	}
	return y
}

func drawHeader(ctx *DrawContext) {
	b := ctx.Box.Inset(ctx.Pad())
	data := ctx.data()
	x := b.X

	if configBool(ctx.Config, "showLogo", true) {
		side := b.Height
		if side > b.Width/3 {
			side = b.Width / 3
		}
		ctx.Surface.DrawImage(coords.Box{X: b.X, Y: b.Y, Width: side, Height: side}, data.CompanyLogo)
		x += side + ctx.Pad()
	}
	width := b.Right() - x

	name := ctx.Font(16)
	ctx.Surface.DrawText(coords.Point{X: x, Y: b.Y}, fit(data.Company.Name, width, name),
		TextStyle{Size: name, Bold: true, Color: ctx.Theme.Primary})

	small := ctx.Font(8)
	lines := append([]string{}, data.Company.Address...)
	lines = append(lines, data.Company.Email, data.Company.Phone)
	column(ctx, x, b.Y+name*lineHeight, lines, TextStyle{Size: small, Color: ColorMuted}, width)
}

func drawCustomer(ctx *DrawContext) {
	b := ctx.Box.Inset(ctx.Pad())
	data := ctx.data()

	label := ctx.Font(8)
	ctx.Surface.DrawText(coords.Point{X: b.X, Y: b.Y}, configString(ctx.Config, "label", "Bill To"),
		TextStyle{Size: label, Bold: true, Color: ctx.Theme.Secondary})

	y := b.Y + label*lineHeight
	name := ctx.Font(11)
	ctx.Surface.DrawText(coords.Point{X: b.X, Y: y}, fit(data.Recipient.Name, b.Width, name),
		TextStyle{Size: name, Bold: true, Color: ColorInk})
	y += name * lineHeight

	lines := append([]string{}, data.Recipient.Address...)
	lines = append(lines, data.Recipient.Email, data.Recipient.Phone)
	column(ctx, b.X, y, lines, TextStyle{Size: ctx.Font(9), Color: ColorInk}, b.Width)
}

func drawInvoiceDetails(ctx *DrawContext) {
	b := ctx.Box.Inset(ctx.Pad())
	data := ctx.data()
	right := b.Right()

	title := ctx.Font(18)
	ctx.Surface.DrawText(coords.Point{X: right, Y: b.Y}, configString(ctx.Config, "title", "INVOICE"),
		TextStyle{Size: title, Bold: true, Color: ctx.Theme.Primary, Align: AlignRight})

	rows := []struct{ label, value string }{
		{"Invoice #", data.Invoice.Number},
		{"Issue Date", data.Invoice.IssueDate},
		{"Due Date", data.Invoice.DueDate},
	}
	size := ctx.Font(9)
	y := b.Y + title*lineHeight
	for _, r := range rows {
		ctx.Surface.DrawText(coords.Point{X: right, Y: y}, fit(r.label+": "+r.value, b.Width, size),
			TextStyle{Size: size, Color: ColorInk, Align: AlignRight})
		y += size * lineHeight
	}
}

// Column widths of the line-items table as fractions of the box width.
var lineItemColumns = []struct {
	title string
	frac  float64
	align Align
}{
	{"Description", 0.50, AlignLeft},
	{"Qty", 0.15, AlignRight},
	{"Rate", 0.175, AlignRight},
	{"Amount", 0.175, AlignRight},
}

func drawLineItems(ctx *DrawContext) {
	b := ctx.Box
	data := ctx.data()
	size := ctx.Font(9)
	rowH := size * 2
	cell := ctx.Font(4)

	ctx.Surface.DrawRect(coords.Box{X: b.X, Y: b.Y, Width: b.Width, Height: rowH},
		RectStyle{Fill: ctx.Theme.Primary})

	row := func(y float64, cells []string, style TextStyle) {
		x := b.X
		for i, col := range lineItemColumns {
			w := b.Width * col.frac
			style.Align = col.align
			anchor := x + cell
			if col.align == AlignRight {
				anchor = x + w - cell
			}
			ctx.Surface.DrawText(coords.Point{X: anchor, Y: y + (rowH-size)/2}, fit(cells[i], w-2*cell, size), style)
			x += w
		}
	}

	titles := make([]string, len(lineItemColumns))
	for i, col := range lineItemColumns {
		titles[i] = col.title
	}
	row(b.Y, titles, TextStyle{Size: size, Bold: true, Color: ctx.Theme.Background})

	y := b.Y + rowH
	for _, li := range data.LineItems {
		row(y, []string{
			li.Description,
			binding.FormatQuantity(li.Quantity),
			data.Money(li.Rate),
			data.Money(li.Amount),
		}, TextStyle{Size: size, Color: ColorInk})
		y += rowH
		ctx.Surface.DrawLine(coords.Point{X: b.X, Y: y}, coords.Point{X: b.Right(), Y: y},
			LineStyle{Color: ColorRule, Width: ctx.Font(0.5)})
	}
}

func drawTotals(ctx *DrawContext) {
	b := ctx.Box
	data := ctx.data()
	size := ctx.Font(9)
	rowH := size * 1.9
	pad := ctx.Font(4)

	rows := []struct{ label, value string }{
		{"Subtotal", data.Money(data.Subtotal)},
		{data.TaxCaption(), data.Money(data.Tax)},
	}
	y := b.Y
	for _, r := range rows {
		ty := y + (rowH-size)/2
		ctx.Surface.DrawText(coords.Point{X: b.X + pad, Y: ty}, r.label, TextStyle{Size: size, Color: ColorMuted})
		ctx.Surface.DrawText(coords.Point{X: b.Right() - pad, Y: ty}, r.value,
			TextStyle{Size: size, Color: ColorInk, Align: AlignRight})
		y += rowH
	}

	total := ctx.Font(11)
	totalH := total * 2
	ctx.Surface.DrawRect(coords.Box{X: b.X, Y: y, Width: b.Width, Height: totalH}, RectStyle{Fill: ctx.Theme.Primary})
	ty := y + (totalH-total)/2
	ctx.Surface.DrawText(coords.Point{X: b.X + pad, Y: ty}, "Total",
		TextStyle{Size: total, Bold: true, Color: ctx.Theme.Background})
	ctx.Surface.DrawText(coords.Point{X: b.Right() - pad, Y: ty}, data.Money(data.Total),
		TextStyle{Size: total, Bold: true, Color: ctx.Theme.Background, Align: AlignRight})
}

func drawPaymentTerms(ctx *DrawContext) {
	b := ctx.Box
	text := configString(ctx.Config, "text", ctx.data().PaymentTerms)

	ctx.Surface.DrawRect(b, RectStyle{Fill: ctx.Theme.Background, Stroke: ctx.Theme.Secondary, StrokeWidth: ctx.Font(0.5)})
	bar := ctx.Font(3)
	ctx.Surface.DrawRect(coords.Box{X: b.X, Y: b.Y, Width: bar, Height: b.Height}, RectStyle{Fill: ctx.Theme.Success})

	size := ctx.Font(8.5)
	x := b.X + bar + ctx.Font(6)
	ctx.Surface.DrawText(coords.Point{X: x, Y: b.Y + (b.Height-size)/2}, fit(strings.TrimSpace(text), b.Right()-x, size),
		TextStyle{Size: size, Color: ColorInk})
}

func drawFooter(ctx *DrawContext) {
	b := ctx.Box
	text := configString(ctx.Config, "text", ctx.data().FooterNote)

	ctx.Surface.DrawLine(coords.Point{X: b.X, Y: b.Y}, coords.Point{X: b.Right(), Y: b.Y},
		LineStyle{Color: ctx.Theme.Secondary, Width: ctx.Font(0.5)})
	size := ctx.Font(8)
	ctx.Surface.DrawText(coords.Point{X: b.X + b.Width/2, Y: b.Y + (b.Height-size)/2}, fit(text, b.Width, size),
		TextStyle{Size: size, Color: ColorMuted, Align: AlignCenter})
}
