// Package binding defines the resolved values a rendered template reads.
// Values arrive fully computed; nothing here does billing arithmetic.
package binding

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Party struct {
	Name    string   `json:"name"`
	Address []string `json:"address,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
}

type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Amount      float64 `json:"amount"`
}

type InvoiceHeader struct {
	Number    string `json:"number"`
	IssueDate string `json:"issue_date"`
	DueDate   string `json:"due_date"`
}

// Context is flat on purpose: a missing field is its zero value and the
// component reading it renders blank rather than failing.
type Context struct {
	Company      Party         `json:"company"`
	CompanyLogo  string        `json:"company_logo,omitempty"`
	Recipient    Party         `json:"recipient"`
	Invoice      InvoiceHeader `json:"invoice"`
	LineItems    []LineItem    `json:"line_items"`
	Subtotal     float64       `json:"subtotal"`
	Tax          float64       `json:"tax"`
	TaxLabel     string        `json:"tax_label,omitempty"`
	Total        float64       `json:"total"`
	Currency     string        `json:"currency"`
	PaymentTerms string        `json:"payment_terms,omitempty"`
	FooterNote   string        `json:"footer_note,omitempty"`
}

// Money formats an amount with the context's currency symbol and two
// decimals, grouping thousands with commas.
func (c *Context) Money(v float64) string {
	if c == nil {
		return FormatMoney("", v)
	}
	return FormatMoney(c.Currency, v)
}

func FormatMoney(symbol string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + symbol + message.NewPrinter(language.English).Sprintf("%.2f", v)
}

// FormatQuantity drops the fraction for whole quantities.
func FormatQuantity(q float64) string {
	if q == math.Trunc(q) {
		return fmt.Sprintf("%.0f", q)
	}
	return fmt.Sprintf("%.2f", q)
}

// TaxCaption is the label of the tax row in a totals block.
func (c *Context) TaxCaption() string {
	if c == nil || c.TaxLabel == "" {
		return "Tax"
	}
	return c.TaxLabel
}
