package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// OrderService defines operations for order management. Every write runs as
// one all-or-nothing unit of work covering stock effects and persistence.
type OrderService interface {
	// Create places a new order, reserving stock for every line item.
	Create(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// Update replaces an order's item set and header, releasing the old
	// reservation before taking the new one.
	Update(ctx context.Context, id uuid.UUID, req *model.OrderRequest) (*model.OrderResponse, error)

	// Delete removes an order, returning all reserved stock.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetByID retrieves an order with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// AttributeService guards the referential integrity of shared catalogue
// dimensions.
type AttributeService interface {
	// SyncValues reconciles an attribute's value set against the desired set.
	// A removal candidate still referenced by a variant aborts the whole
	// operation; no partial add or remove survives.
	SyncValues(ctx context.Context, attributeID int64, desired []string) ([]model.AttributeValue, error)

	// DeleteAttribute removes an attribute after verifying none of its values
	// is referenced by a variant.
	DeleteAttribute(ctx context.Context, attributeID int64) error
}

// CatalogService serves catalogue reads with sale-adjusted prices.
type CatalogService interface {
	// GetProducts retrieves products with their variants priced against any
	// active sale.
	GetProducts(ctx context.Context, limit, offset int) ([]model.ProductView, error)

	// GetProductByID retrieves a single priced product, or nil when absent.
	GetProductByID(ctx context.Context, id int64) (*model.ProductView, error)
}
