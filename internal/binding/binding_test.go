package binding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		symbol string
		v      float64
		want   string
	}{
		{"$", 0, "$0.00"},
		{"$", 5.5, "$5.50"},
		{"£", 1234.567, "£1,234.57"},
		{"€", 1000000, "€1,000,000.00"},
		{"", 999.999, "1,000.00"},
		{"$", -42.1, "-$42.10"},
		{"$", -98765.4, "-$98,765.40"},
		{"$", math.NaN(), "$0.00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatMoney(c.symbol, c.v))
	}
}

func TestMoneyOnNilContext(t *testing.T) {
	var c *Context
	assert.Equal(t, "12.00", c.Money(12))
	assert.Equal(t, "Tax", c.TaxCaption())
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(3))
	assert.Equal(t, "2.50", FormatQuantity(2.5))
}

func TestDemoIsConsistent(t *testing.T) {
	d := Demo()
	sum := 0.0
	for _, li := range d.LineItems {
		assert.InDelta(t, li.Quantity*li.Rate, li.Amount, 1e-9)
		sum += li.Amount
	}
	assert.InDelta(t, d.Subtotal, sum, 1e-9)
	assert.InDelta(t, d.Total, d.Subtotal+d.Tax, 1e-9)
}
