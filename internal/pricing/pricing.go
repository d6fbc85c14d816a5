// Package pricing computes effective unit prices and order totals. All money
// arithmetic goes through decimal values and a single rounding rule
// (round-half-up to two decimal places), applied identically at display time
// and at order-total validation time.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to the currency's minor unit using
// round-half-up.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// EffectivePrice returns the unit price after applying the sale, or the base
// price unchanged when sale is nil. Results are clamped at zero and rounded
// to two decimal places. The function is pure: identical inputs always yield
// identical output.
func EffectivePrice(basePrice float64, sale *model.Sale) float64 {
	base := decimal.NewFromFloat(basePrice)
	if sale == nil {
		f, _ := base.Round(2).Float64()
		return f
	}

	discount := decimal.NewFromFloat(sale.DiscountValue)

	var price decimal.Decimal
	switch sale.DiscountType {
	case model.DiscountPercentage:
		price = base.Mul(one.Sub(discount.Div(hundred)))
	case model.DiscountFixed:
		price = base.Sub(discount)
	default:
		price = base
	}

	if price.IsNegative() {
		price = decimal.Zero
	}

	f, _ := price.Round(2).Float64()
	return f
}

// Policy is the server-side money policy used to validate declared order
// totals.
type Policy struct {
	TaxRate        float64
	ShippingFee    float64
	TotalTolerance float64
}

// Line is one priced order line.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// OrderTotal recomputes the expected order total: the rounded sum of the
// per-line amounts, plus tax on that subtotal, plus the shipping fee.
func (p Policy) OrderTotal(lines []Line) float64 {
	subtotal := decimal.Zero
	for _, l := range lines {
		amount := decimal.NewFromFloat(l.UnitPrice).
			Mul(decimal.NewFromInt(int64(l.Quantity))).
			Round(2)
		subtotal = subtotal.Add(amount)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(p.TaxRate)).Round(2)
	total := subtotal.Add(tax).Add(decimal.NewFromFloat(p.ShippingFee)).Round(2)

	f, _ := total.Float64()
	return f
}

// WithinTolerance reports whether a client-declared total agrees with the
// server-computed total, allowing for the configured rounding tolerance.
func (p Policy) WithinTolerance(declared, computed float64) bool {
	diff := decimal.NewFromFloat(declared).Sub(decimal.NewFromFloat(computed)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(p.TotalTolerance))
}
