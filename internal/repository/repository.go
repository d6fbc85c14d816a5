package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TxRunner runs a function inside a single database transaction with
// commit-on-success and rollback-on-any-error semantics.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// CatalogRepository defines read access to products and variants. The core
// never writes catalogue rows; variant quantity is mutated exclusively
// through InventoryRepository.
type CatalogRepository interface {
	// GetProducts retrieves products with pagination support.
	GetProducts(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetProductByID retrieves a single product, or nil when absent.
	GetProductByID(ctx context.Context, id int64) (*model.Product, error)

	// GetVariantsByProduct retrieves all variants of a product.
	GetVariantsByProduct(ctx context.Context, productID int64) ([]model.Variant, error)

	// GetVariantsByIDs retrieves variants by id. Absent ids are simply
	// missing from the result; callers detect them by comparing lengths.
	GetVariantsByIDs(ctx context.Context, ids []int64) ([]model.Variant, error)
}

// InventoryRepository is the inventory ledger. Both operations must run
// inside the caller's transaction so a failed multi-line order rolls back
// every stock effect at once.
type InventoryRepository interface {
	// Reserve atomically decrements a variant's on-hand quantity, but only
	// when the pre-decrement quantity covers the request. A shortfall yields
	// *model.InsufficientStockError; a missing variant yields
	// *model.NotFoundError.
	Reserve(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error

	// Release atomically increments a variant's on-hand quantity, reversing a
	// previous reservation. A missing variant is a consistency error.
	Release(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error
}

// OrderRepository defines order persistence. Mutating methods take the
// enclosing transaction; reads outside a write path use the pool directly.
type OrderRepository interface {
	InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error
	InsertOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error
	UpdateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetOrderTx retrieves an order header inside a transaction, or nil when
	// absent.
	GetOrderTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)

	// GetOrderItemsTx retrieves the persisted line items inside a
	// transaction; used to reverse their stock effects before a rewrite.
	GetOrderItemsTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	DeleteOrderItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
	DeletePayments(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error
	DeleteOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) error

	// GetByID retrieves an order with its items, or (nil, nil, nil) when the
	// order does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// AttributeRepository defines attribute and attribute-value persistence.
type AttributeRepository interface {
	// GetAttribute retrieves an attribute inside a transaction, or nil when
	// absent.
	GetAttribute(ctx context.Context, tx pgx.Tx, id int64) (*model.Attribute, error)

	// GetValues retrieves the current values of an attribute.
	GetValues(ctx context.Context, tx pgx.Tx, attributeID int64) ([]model.AttributeValue, error)

	// CountVariantRefs returns, for each given value id, how many variants
	// reference it. Ids with no references are absent from the map.
	CountVariantRefs(ctx context.Context, tx pgx.Tx, valueIDs []int64) (map[int64]int, error)

	// AddValues inserts new values for an attribute in one batch.
	AddValues(ctx context.Context, tx pgx.Tx, attributeID int64, values []string) error

	// DeleteValues removes values by id in one statement.
	DeleteValues(ctx context.Context, tx pgx.Tx, ids []int64) error

	// DeleteAttribute removes an attribute; its values go with it via
	// cascade.
	DeleteAttribute(ctx context.Context, tx pgx.Tx, id int64) error
}

// SaleRepository defines promotional campaign persistence and lookup.
type SaleRepository interface {
	// GetActiveSaleForProduct returns the sale covering the product at the
	// given instant, or nil when none applies. When several sales qualify the
	// one with the highest id wins.
	GetActiveSaleForProduct(ctx context.Context, productID int64, at time.Time) (*model.Sale, error)

	// UpsertCampaign inserts or updates a sale by name and replaces its
	// product assignments, all within the caller's transaction.
	UpsertCampaign(ctx context.Context, tx pgx.Tx, sale *model.Sale, productIDs []int64) error
}
