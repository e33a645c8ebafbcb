package schema

// StarterGallery returns the starter documents offered when a new template
// is created. Each call returns fresh copies.
func StarterGallery() []TemplateDocument {
	return []TemplateDocument{classic(), compact(), modern()}
}

func classic() TemplateDocument {
	doc := CreateEmptyDocument()
	doc.Name = "Classic"
	doc.Description = "Header, billing block and itemised table on a single column"
	doc.Components = []TemplateComponent{
		{ID: "header-1", Type: TypeHeader, Position: Position{X: 5, Y: 3}, Size: Size{Width: 50, Height: 10},
			Config: map[string]any{"showLogo": true}},
		{ID: "invoice-details-1", Type: TypeInvoiceDetails, Position: Position{X: 60, Y: 3}, Size: Size{Width: 35, Height: 12},
			Config: map[string]any{"title": "INVOICE"}},
		{ID: "customer-1", Type: TypeCustomer, Position: Position{X: 5, Y: 17}, Size: Size{Width: 40, Height: 12}},
		{ID: "line-items-1", Type: TypeLineItems, Position: Position{X: 5, Y: 32}, Size: Size{Width: 90, Height: 30}},
		{ID: "totals-1", Type: TypeTotals, Position: Position{X: 60, Y: 64}, Size: Size{Width: 35, Height: 12}},
		{ID: "payment-terms-1", Type: TypePaymentTerms, Position: Position{X: 5, Y: 80}, Size: Size{Width: 90, Height: 6}},
		{ID: "footer-1", Type: TypeFooter, Position: Position{X: 5, Y: 92}, Size: Size{Width: 90, Height: 5}},
	}
	return doc
}

func compact() TemplateDocument {
	doc := CreateEmptyDocument()
	doc.Name = "Compact"
	doc.Description = "Dense layout for short monthly rent invoices"
	doc.Layout.Spacing = SpacingCompact
	doc.Layout.Colors = ColorTheme{Primary: "#0f172a", Secondary: "#475569", Success: "#15803d", Background: "#ffffff"}
	doc.Components = []TemplateComponent{
		{ID: "header-1", Type: TypeHeader, Position: Position{X: 5, Y: 2}, Size: Size{Width: 45, Height: 8},
			Config: map[string]any{"showLogo": false}},
		{ID: "invoice-details-1", Type: TypeInvoiceDetails, Position: Position{X: 55, Y: 2}, Size: Size{Width: 40, Height: 10}},
		{ID: "customer-1", Type: TypeCustomer, Position: Position{X: 5, Y: 12}, Size: Size{Width: 45, Height: 10}},
		{ID: "line-items-1", Type: TypeLineItems, Position: Position{X: 5, Y: 24}, Size: Size{Width: 90, Height: 25}},
		{ID: "totals-1", Type: TypeTotals, Position: Position{X: 60, Y: 51}, Size: Size{Width: 35, Height: 10}},
		{ID: "footer-1", Type: TypeFooter, Position: Position{X: 5, Y: 94}, Size: Size{Width: 90, Height: 5}},
	}
	return doc
}

func modern() TemplateDocument {
	doc := CreateEmptyDocument()
	doc.Name = "Modern"
	doc.Description = "Wide spacing with an accent colour on totals"
	doc.Layout.Spacing = SpacingWide
	doc.Layout.Colors = ColorTheme{Primary: "#7c3aed", Secondary: "#6b7280", Success: "#059669", Background: "#faf5ff"}
	doc.Components = []TemplateComponent{
		{ID: "header-1", Type: TypeHeader, Position: Position{X: 8, Y: 5}, Size: Size{Width: 84, Height: 10},
			Config: map[string]any{"showLogo": true}},
		{ID: "customer-1", Type: TypeCustomer, Position: Position{X: 8, Y: 20}, Size: Size{Width: 40, Height: 12}},
		{ID: "invoice-details-1", Type: TypeInvoiceDetails, Position: Position{X: 55, Y: 20}, Size: Size{Width: 37, Height: 12}},
		{ID: "line-items-1", Type: TypeLineItems, Position: Position{X: 8, Y: 36}, Size: Size{Width: 84, Height: 30}},
		{ID: "totals-1", Type: TypeTotals, Position: Position{X: 57, Y: 68}, Size: Size{Width: 35, Height: 14}},
		{ID: "payment-terms-1", Type: TypePaymentTerms, Position: Position{X: 8, Y: 85}, Size: Size{Width: 84, Height: 6}},
		{ID: "footer-1", Type: TypeFooter, Position: Position{X: 8, Y: 93}, Size: Size{Width: 84, Height: 5}},
	}
	return doc
}
