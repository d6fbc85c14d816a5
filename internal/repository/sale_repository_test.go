package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upsertTestCampaign(t *testing.T, store *Store, repo SaleRepository, sale *model.Sale, productIDs []int64) {
	t.Helper()

	err := store.WithTx(context.Background(), func(tx pgx.Tx) error {
		return repo.UpsertCampaign(context.Background(), tx, sale, productIDs)
	})
	require.NoError(t, err)
}

func TestSaleRepository_GetActiveSaleForProduct(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewSaleRepository(pool, logger)

	productID := createProduct(t, pool, "T-Shirt")
	otherProduct := createProduct(t, pool, "Mug")

	now := time.Now().UTC()
	sale := &model.Sale{
		Name:          "spring",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 20,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	upsertTestCampaign(t, store, repo, sale, []int64{productID})

	t.Run("Active for assigned product", func(t *testing.T) {
		got, err := repo.GetActiveSaleForProduct(ctx, productID, now)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "spring", got.Name)
		assert.Equal(t, model.DiscountPercentage, got.DiscountType)
		assert.Equal(t, 20.0, got.DiscountValue)
	})

	t.Run("Not assigned to other product", func(t *testing.T) {
		got, err := repo.GetActiveSaleForProduct(ctx, otherProduct, now)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Outside the window", func(t *testing.T) {
		got, err := repo.GetActiveSaleForProduct(ctx, productID, now.Add(2*time.Hour))

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Window edges are inclusive", func(t *testing.T) {
		got, err := repo.GetActiveSaleForProduct(ctx, productID, sale.StartsAt)
		require.NoError(t, err)
		assert.NotNil(t, got)

		got, err = repo.GetActiveSaleForProduct(ctx, productID, sale.EndsAt)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}

// When two sales overlap for the same product, the one with the highest id
// wins.
func TestSaleRepository_OverlappingSalesTieBreak(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewSaleRepository(pool, logger)

	productID := createProduct(t, pool, "T-Shirt")
	now := time.Now().UTC()

	older := &model.Sale{
		Name:          "spring",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 10,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	newer := &model.Sale{
		Name:          "flash",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 30,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	upsertTestCampaign(t, store, repo, older, []int64{productID})
	upsertTestCampaign(t, store, repo, newer, []int64{productID})
	require.Greater(t, newer.ID, older.ID)

	got, err := repo.GetActiveSaleForProduct(ctx, productID, now)

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
	assert.Equal(t, "flash", got.Name)
}

func TestSaleRepository_UpsertCampaign_ReplacesAssignments(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewSaleRepository(pool, logger)

	productA := createProduct(t, pool, "T-Shirt")
	productB := createProduct(t, pool, "Mug")
	now := time.Now().UTC()

	sale := &model.Sale{
		Name:          "spring",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: 20,
		StartsAt:      now.Add(-time.Hour),
		EndsAt:        now.Add(time.Hour),
	}
	upsertTestCampaign(t, store, repo, sale, []int64{productA})
	firstID := sale.ID
	require.NotZero(t, firstID)

	// Re-import with a changed discount and a different product set
	sale.DiscountValue = 25
	upsertTestCampaign(t, store, repo, sale, []int64{productB})

	// Same sale row, updated in place
	assert.Equal(t, firstID, sale.ID)

	got, err := repo.GetActiveSaleForProduct(ctx, productA, now)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetActiveSaleForProduct(ctx, productB, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, firstID, got.ID)
	assert.Equal(t, 25.0, got.DiscountValue)
}
