package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema is the storefront DDL. order_items restricts deletion of referenced
// variants, which transitively blocks deleting a product that historical
// orders still point at; everything else under a product cascades.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS product_categories (
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		PRIMARY KEY (product_id, category_id)
	);

	CREATE TABLE IF NOT EXISTS product_images (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		url TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS variants (
		id BIGSERIAL PRIMARY KEY,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		sku TEXT NOT NULL UNIQUE,
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0)
	);

	CREATE TABLE IF NOT EXISTS attributes (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS attribute_values (
		id BIGSERIAL PRIMARY KEY,
		attribute_id BIGINT NOT NULL REFERENCES attributes(id) ON DELETE CASCADE,
		value TEXT NOT NULL,
		UNIQUE (attribute_id, value)
	);

	CREATE TABLE IF NOT EXISTS variant_attribute_values (
		variant_id BIGINT NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
		attribute_id BIGINT NOT NULL REFERENCES attributes(id) ON DELETE CASCADE,
		attribute_value_id BIGINT NOT NULL REFERENCES attribute_values(id) ON DELETE RESTRICT,
		PRIMARY KEY (variant_id, attribute_value_id),
		UNIQUE (variant_id, attribute_id)
	);

	CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		client_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		shipping_address TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'processing', 'shipped', 'delivered', 'cancelled')),
		total_amount NUMERIC(12,2) NOT NULL CHECK (total_amount >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		variant_id BIGINT NOT NULL REFERENCES variants(id) ON DELETE RESTRICT,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0)
	);

	CREATE TABLE IF NOT EXISTS payments (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id),
		amount NUMERIC(12,2) NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		discount_type TEXT NOT NULL CHECK (discount_type IN ('percentage', 'fixed')),
		discount_value NUMERIC(12,2) NOT NULL CHECK (discount_value >= 0),
		starts_at TIMESTAMPTZ NOT NULL,
		ends_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (starts_at <= ends_at)
	);

	CREATE TABLE IF NOT EXISTS sale_products (
		sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		PRIMARY KEY (sale_id, product_id)
	);

	CREATE INDEX IF NOT EXISTS idx_variants_product_id ON variants(product_id);
	CREATE INDEX IF NOT EXISTS idx_attribute_values_attribute_id ON attribute_values(attribute_id);
	CREATE INDEX IF NOT EXISTS idx_vav_attribute_value_id ON variant_attribute_values(attribute_value_id);
	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
	CREATE INDEX IF NOT EXISTS idx_order_items_variant_id ON order_items(variant_id);
	CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id);
	CREATE INDEX IF NOT EXISTS idx_sales_window ON sales(starts_at, ends_at);
`

// Migrate applies the schema. All statements are idempotent, so running it on
// every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
