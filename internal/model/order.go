package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order header.
type Order struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	ClientName      string      `json:"clientName" db:"client_name"`
	Phone           string      `json:"phone" db:"phone"`
	Email           string      `json:"email" db:"email"`
	ShippingAddress string      `json:"shippingAddress" db:"shipping_address"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line item of an order. UnitPrice is a snapshot taken at
// order time; later catalogue price changes never alter it.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	VariantID int64     `json:"variantId" db:"variant_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
}

// OrderRequest is the payload for creating or replacing an order. The
// declared total is validated against the server-computed total; the server
// is the source of truth for money.
type OrderRequest struct {
	ClientName      string             `json:"clientName"`
	Phone           string             `json:"phone"`
	Email           string             `json:"email"`
	ShippingAddress string             `json:"shippingAddress"`
	Status          OrderStatus        `json:"status,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	DeclaredTotal   float64            `json:"declaredTotal"`
}

// OrderItemRequest is a single requested line item.
type OrderItemRequest struct {
	VariantID int64 `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

// OrderResponse is the payload returned for order reads and writes.
type OrderResponse struct {
	ID              uuid.UUID   `json:"id"`
	ClientName      string      `json:"clientName"`
	Status          OrderStatus `json:"status"`
	TotalAmount     float64     `json:"totalAmount"`
	ShippingAddress string      `json:"shippingAddress"`
	Items           []OrderItem `json:"items"`
}
