package schema

// ComponentLibraryEntry is a draggable starting point in the authoring
// palette. It becomes a TemplateComponent with a fresh id when dropped.
type ComponentLibraryEntry struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	DefaultSize   Size           `json:"default_size"`
	DefaultConfig map[string]any `json:"default_config,omitempty"`
}

// FallbackSize is used for entries that do not declare a default size.
var FallbackSize = Size{Width: 40, Height: 10}

func ComponentLibrary() []ComponentLibraryEntry {
	return []ComponentLibraryEntry{
		{ID: "lib-header", Name: "Company Header", Type: TypeHeader, DefaultSize: Size{Width: 40, Height: 10},
			DefaultConfig: map[string]any{"showLogo": true}},
		{ID: "lib-customer", Name: "Bill To", Type: TypeCustomer, DefaultSize: Size{Width: 40, Height: 12}},
		{ID: "lib-invoice-details", Name: "Invoice Details", Type: TypeInvoiceDetails, DefaultSize: Size{Width: 35, Height: 12},
			DefaultConfig: map[string]any{"title": "INVOICE"}},
		{ID: "lib-line-items", Name: "Line Items", Type: TypeLineItems, DefaultSize: Size{Width: 90, Height: 30}},
		{ID: "lib-totals", Name: "Totals", Type: TypeTotals, DefaultSize: Size{Width: 35, Height: 12}},
		{ID: "lib-payment-terms", Name: "Payment Terms", Type: TypePaymentTerms, DefaultSize: Size{Width: 90, Height: 6}},
		{ID: "lib-footer", Name: "Footer", Type: TypeFooter, DefaultSize: Size{Width: 90, Height: 5}},
	}
}

// LibraryEntry looks an entry up by id.
func LibraryEntry(id string) (ComponentLibraryEntry, bool) {
	for _, e := range ComponentLibrary() {
		if e.ID == id {
			return e, true
		}
	}
	return ComponentLibraryEntry{}, false
}

// Size returns the entry's default size, falling back when unset.
func (e ComponentLibraryEntry) Size() Size {
	if e.DefaultSize.Width <= 0 || e.DefaultSize.Height <= 0 {
		return FallbackSize
	}
	return e.DefaultSize
}
