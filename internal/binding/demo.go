package binding

// Demo returns sample storage-facility invoice values for authoring
// previews. It has the same shape as a context built from a real invoice.
func Demo() Context {
	return Context{
		Company: Party{
			Name:    "Harbourside Self Storage",
			Address: []string{"14 Dockyard Road", "Portsmouth PO1 3LJ"},
			Email:   "billing@harbourside-storage.example",
			Phone:   "+44 23 9200 1100",
		},
		Recipient: Party{
			Name:    "Jordan Ellis",
			Address: []string{"22 Elm Grove", "Southsea PO5 1JD"},
			Email:   "jordan.ellis@example.com",
		},
		Invoice: InvoiceHeader{
			Number:    "INV-2026-0142",
			IssueDate: "2026-10-01",
			DueDate:   "2026-10-15",
		},
		LineItems: []LineItem{
			{Description: "Unit B-12 (10x10 ft) monthly rent", Quantity: 1, Rate: 129, Amount: 129},
			{Description: "Contents protection cover", Quantity: 1, Rate: 9.5, Amount: 9.5},
			{Description: "Padlock", Quantity: 2, Rate: 7.25, Amount: 14.5},
		},
		Subtotal:     153,
		Tax:          30.6,
		TaxLabel:     "VAT (20%)",
		Total:        183.6,
		Currency:     "£",
		PaymentTerms: "Payment due within 14 days. Late payments may incur a lock-out fee.",
		FooterNote:   "Thank you for storing with us.",
	}
}
