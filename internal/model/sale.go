package model

import "time"

// DiscountType enumerates how a sale discounts a price.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ValidDiscountType reports whether t is a known discount type.
func ValidDiscountType(t DiscountType) bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Sale is a promotional campaign. A sale is active for a product when the
// current instant falls inside [StartsAt, EndsAt] and the product belongs to
// the sale's assigned set. When several sales qualify for one product, the
// sale with the highest id wins; that tie-break is the single documented
// selection rule.
type Sale struct {
	ID            int64        `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	DiscountType  DiscountType `json:"discountType" db:"discount_type"`
	DiscountValue float64      `json:"discountValue" db:"discount_value"`
	StartsAt      time.Time    `json:"startsAt" db:"starts_at"`
	EndsAt        time.Time    `json:"endsAt" db:"ends_at"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}
