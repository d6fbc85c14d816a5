package repository

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogRepository_GetProducts(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCatalogRepository(pool, zerolog.Nop())

	createProduct(t, pool, "Mug")
	createProduct(t, pool, "T-Shirt")
	createProduct(t, pool, "Cap")

	t.Run("Ordered by name", func(t *testing.T) {
		products, err := repo.GetProducts(ctx, 10, 0)

		require.NoError(t, err)
		require.Len(t, products, 3)
		assert.Equal(t, "Cap", products[0].Name)
		assert.Equal(t, "Mug", products[1].Name)
		assert.Equal(t, "T-Shirt", products[2].Name)
	})

	t.Run("Pagination", func(t *testing.T) {
		products, err := repo.GetProducts(ctx, 2, 1)

		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Mug", products[0].Name)
		assert.Equal(t, "T-Shirt", products[1].Name)
	})
}

func TestCatalogRepository_GetProductByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCatalogRepository(pool, zerolog.Nop())

	productID := createProduct(t, pool, "T-Shirt")

	product, err := repo.GetProductByID(ctx, productID)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, productID, product.ID)
	assert.Equal(t, "T-Shirt", product.Name)
	assert.False(t, product.CreatedAt.IsZero())

	missing, err := repo.GetProductByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCatalogRepository_GetVariantsByProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCatalogRepository(pool, zerolog.Nop())

	productID := createProduct(t, pool, "T-Shirt")
	otherID := createProduct(t, pool, "Mug")
	variantA := createVariant(t, pool, productID, "TS-RED-M", 25.00, 10)
	variantB := createVariant(t, pool, productID, "TS-RED-L", 27.00, 5)
	createVariant(t, pool, otherID, "MUG-STD", 8.00, 100)

	variants, err := repo.GetVariantsByProduct(ctx, productID)

	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, variantA, variants[0].ID)
	assert.Equal(t, "TS-RED-M", variants[0].SKU)
	assert.Equal(t, 25.00, variants[0].Price)
	assert.Equal(t, 10, variants[0].Quantity)
	assert.Equal(t, variantB, variants[1].ID)
}

func TestCatalogRepository_GetVariantsByIDs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewCatalogRepository(pool, zerolog.Nop())

	productID := createProduct(t, pool, "T-Shirt")
	variantA := createVariant(t, pool, productID, "TS-RED-M", 25.00, 10)
	variantB := createVariant(t, pool, productID, "TS-RED-L", 27.00, 5)

	t.Run("Known ids", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, []int64{variantA, variantB})

		require.NoError(t, err)
		require.Len(t, variants, 2)
	})

	t.Run("Absent ids are simply missing", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, []int64{variantA, 999999})

		require.NoError(t, err)
		require.Len(t, variants, 1)
		assert.Equal(t, variantA, variants[0].ID)
	})

	t.Run("Empty input", func(t *testing.T) {
		variants, err := repo.GetVariantsByIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, variants)
	})
}
