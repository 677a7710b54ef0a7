// Package pricing holds the storefront's money rules: line totals, the flat
// GST rate, and display formatting.
package pricing

import (
	"math"

	"github.com/innovativehub/storefront/pkg/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// GSTRate is applied on top of the item subtotal at checkout.
var GSTRate = decimal.RequireFromString("0.18")

var displayLocale = language.MustParse("en-IN")

// Breakdown is the tax view of a subtotal. Every field is rounded to paise.
type Breakdown struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	GSTAmount decimal.Decimal `json:"gstAmount"`
	Total     decimal.Decimal `json:"total"`
}

// Round2 rounds half away from zero to two decimals.
func Round2(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}

// Subtotal sums price × quantity over items without rounding.
func Subtotal(items []types.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// TotalQuantity sums quantities over items.
func TotalQuantity(items []types.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// GSTBreakdown applies GSTRate to subtotal. The tax is rounded first and the
// total is rounded from the rounded tax.
func GSTBreakdown(subtotal decimal.Decimal) Breakdown {
	gst := Round2(subtotal.Mul(GSTRate))
	return Breakdown{
		Subtotal:  Round2(subtotal),
		GSTAmount: gst,
		Total:     Round2(subtotal.Add(gst)),
	}
}

// WithShipping adds a shipping charge to the GST-inclusive total.
func WithShipping(b Breakdown, shipping decimal.Decimal) decimal.Decimal {
	return Round2(b.Total.Add(shipping))
}

// FormatAmount renders value with en-IN grouping and exactly two decimals.
// NaN and infinities render as zero.
func FormatAmount(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		value = 0
	}
	return FormatDecimal(decimal.NewFromFloat(value))
}

// FormatDecimal is FormatAmount for decimal values.
func FormatDecimal(value decimal.Decimal) string {
	rounded := Round2(value).InexactFloat64()
	printer := message.NewPrinter(displayLocale)
	return printer.Sprint(number.Decimal(rounded, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
