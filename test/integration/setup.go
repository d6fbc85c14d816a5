package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, a connection pool and the
// full application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalog holds the ids of the rows seeded by SeedCatalog for use in test
// assertions and request payloads.
type Catalog struct {
	ProductID   int64
	VariantID   int64 // 10.00, qty 10
	VariantID2  int64 // 25.00, qty 3
	AttributeID int64
	RedValueID  int64
	BlueValueID int64
}

// SeedCatalog inserts a product with two variants, a "Color" attribute with
// values Red and Blue, and links the first variant to Red.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) *Catalog {
	t.Helper()

	ctx := context.Background()
	c := &Catalog{}

	err := pool.QueryRow(ctx,
		"INSERT INTO products (name, description) VALUES ($1, $2) RETURNING id",
		"Test T-Shirt", "A plain test t-shirt",
	).Scan(&c.ProductID)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO variants (product_id, sku, price, quantity) VALUES ($1, $2, $3, $4) RETURNING id",
		c.ProductID, "TS-RED-M", 10.00, 10,
	).Scan(&c.VariantID)
	if err != nil {
		t.Fatalf("failed to seed variant: %v", err)
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO variants (product_id, sku, price, quantity) VALUES ($1, $2, $3, $4) RETURNING id",
		c.ProductID, "TS-BLUE-L", 25.00, 3,
	).Scan(&c.VariantID2)
	if err != nil {
		t.Fatalf("failed to seed variant: %v", err)
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO attributes (name) VALUES ($1) RETURNING id", "Color",
	).Scan(&c.AttributeID)
	if err != nil {
		t.Fatalf("failed to seed attribute: %v", err)
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO attribute_values (attribute_id, value) VALUES ($1, $2) RETURNING id",
		c.AttributeID, "Red",
	).Scan(&c.RedValueID)
	if err != nil {
		t.Fatalf("failed to seed attribute value: %v", err)
	}

	err = pool.QueryRow(ctx,
		"INSERT INTO attribute_values (attribute_id, value) VALUES ($1, $2) RETURNING id",
		c.AttributeID, "Blue",
	).Scan(&c.BlueValueID)
	if err != nil {
		t.Fatalf("failed to seed attribute value: %v", err)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO variant_attribute_values (variant_id, attribute_id, attribute_value_id) VALUES ($1, $2, $3)",
		c.VariantID, c.AttributeID, c.RedValueID,
	)
	if err != nil {
		t.Fatalf("failed to link variant attribute: %v", err)
	}

	return c
}

// SeedSale puts the seeded product on a 20% discount active right now.
func SeedSale(t *testing.T, pool *pgxpool.Pool, productID int64) int64 {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()

	var saleID int64
	err := pool.QueryRow(ctx,
		`INSERT INTO sales (name, discount_type, discount_value, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		"integration-sale", "percentage", 20.0, now.Add(-time.Hour), now.Add(time.Hour),
	).Scan(&saleID)
	if err != nil {
		t.Fatalf("failed to seed sale: %v", err)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO sale_products (sale_id, product_id) VALUES ($1, $2)",
		saleID, productID,
	)
	if err != nil {
		t.Fatalf("failed to assign sale: %v", err)
	}

	return saleID
}

// VariantQuantity reads the current stock count of a variant.
func VariantQuantity(t *testing.T, pool *pgxpool.Pool, variantID int64) int {
	t.Helper()

	var qty int
	err := pool.QueryRow(context.Background(),
		"SELECT quantity FROM variants WHERE id = $1", variantID,
	).Scan(&qty)
	if err != nil {
		t.Fatalf("failed to read variant quantity: %v", err)
	}
	return qty
}

// CleanupDB cleans all data from test tables in dependency order.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"payments", "order_items", "orders",
		"sale_products", "sales",
		"variant_attribute_values", "attribute_values", "attributes",
		"product_images", "product_categories", "categories",
		"variants", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
