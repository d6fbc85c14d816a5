package model

import "time"

// Product represents a sellable product in the catalogue.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Variant is a concrete purchasable configuration of a product with its own
// price and stock count. Quantity is only ever mutated through the inventory
// repository's conditional updates.
type Variant struct {
	ID        int64   `json:"id" db:"id"`
	ProductID int64   `json:"productId" db:"product_id"`
	SKU       string  `json:"sku" db:"sku"`
	Price     float64 `json:"price" db:"price"`
	Quantity  int     `json:"quantity" db:"quantity"`
}

// Attribute is a named catalogue dimension such as "Color" or "Size".
type Attribute struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AttributeValue is one allowed value of an attribute, e.g. "Red" for
// "Color". Values are unique within their owning attribute.
type AttributeValue struct {
	ID          int64  `json:"id" db:"id"`
	AttributeID int64  `json:"attributeId" db:"attribute_id"`
	Value       string `json:"value" db:"value"`
}

// ProductView is a product as served by the read API, with its variants
// priced against any currently active sale.
type ProductView struct {
	Product
	Variants []VariantView `json:"variants,omitempty"`
	Sale     *Sale         `json:"sale,omitempty"`
}

// VariantView carries the effective (sale-adjusted) unit price next to the
// base price.
type VariantView struct {
	Variant
	EffectivePrice float64 `json:"effectivePrice"`
}
