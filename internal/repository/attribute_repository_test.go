package repository

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeRepository_GetAttribute(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	attributeID := createAttribute(t, pool, "Color")

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		attr, err := repo.GetAttribute(ctx, tx, attributeID)
		require.NoError(t, err)
		require.NotNil(t, attr)
		assert.Equal(t, attributeID, attr.ID)
		assert.Equal(t, "Color", attr.Name)

		missing, err := repo.GetAttribute(ctx, tx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)

		return nil
	})
	require.NoError(t, err)
}

func TestAttributeRepository_AddAndGetValues(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	attributeID := createAttribute(t, pool, "Color")

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repo.AddValues(ctx, tx, attributeID, []string{"Red", "Blue", "Green"}); err != nil {
			return err
		}

		values, err := repo.GetValues(ctx, tx, attributeID)
		require.NoError(t, err)
		require.Len(t, values, 3)
		assert.Equal(t, "Red", values[0].Value)
		assert.Equal(t, "Blue", values[1].Value)
		assert.Equal(t, "Green", values[2].Value)
		for _, v := range values {
			assert.Equal(t, attributeID, v.AttributeID)
		}

		// Empty batch is a no-op
		return repo.AddValues(ctx, tx, attributeID, nil)
	})
	require.NoError(t, err)
}

func TestAttributeRepository_AddValues_DuplicateRejected(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	attributeID := createAttribute(t, pool, "Color")
	createAttributeValue(t, pool, attributeID, "Red")

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.AddValues(ctx, tx, attributeID, []string{"Red"})
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Red")
}

func TestAttributeRepository_CountVariantRefs(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	productID := createProduct(t, pool, "T-Shirt")
	variantA := createVariant(t, pool, productID, "TS-RED-M", 25.00, 10)
	variantB := createVariant(t, pool, productID, "TS-RED-L", 25.00, 10)

	attributeID := createAttribute(t, pool, "Color")
	redID := createAttributeValue(t, pool, attributeID, "Red")
	blueID := createAttributeValue(t, pool, attributeID, "Blue")

	linkVariantValue(t, pool, variantA, attributeID, redID)
	linkVariantValue(t, pool, variantB, attributeID, redID)

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		refs, err := repo.CountVariantRefs(ctx, tx, []int64{redID, blueID})
		require.NoError(t, err)

		assert.Equal(t, 2, refs[redID])
		// Unreferenced ids are absent from the map
		_, ok := refs[blueID]
		assert.False(t, ok)

		// Empty input short-circuits without touching the database
		empty, err := repo.CountVariantRefs(ctx, tx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)

		return nil
	})
	require.NoError(t, err)
}

func TestAttributeRepository_DeleteValues(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	attributeID := createAttribute(t, pool, "Color")
	redID := createAttributeValue(t, pool, attributeID, "Red")
	blueID := createAttributeValue(t, pool, attributeID, "Blue")

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		if err := repo.DeleteValues(ctx, tx, []int64{redID}); err != nil {
			return err
		}

		values, err := repo.GetValues(ctx, tx, attributeID)
		require.NoError(t, err)
		require.Len(t, values, 1)
		assert.Equal(t, blueID, values[0].ID)

		return nil
	})
	require.NoError(t, err)
}

func TestAttributeRepository_DeleteValues_BlockedByVariantRef(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	productID := createProduct(t, pool, "T-Shirt")
	variantID := createVariant(t, pool, productID, "TS-RED-M", 25.00, 10)
	attributeID := createAttribute(t, pool, "Color")
	redID := createAttributeValue(t, pool, attributeID, "Red")
	linkVariantValue(t, pool, variantID, attributeID, redID)

	// The schema itself blocks deleting a referenced value; the service's
	// reference check usually fires first, but the constraint is the backstop.
	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.DeleteValues(ctx, tx, []int64{redID})
	})

	require.Error(t, err)
}

func TestAttributeRepository_DeleteAttribute(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	store := NewStore(pool, logger)
	repo := NewAttributeRepository(logger)

	attributeID := createAttribute(t, pool, "Color")
	createAttributeValue(t, pool, attributeID, "Red")

	err := store.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.DeleteAttribute(ctx, tx, attributeID)
	})
	require.NoError(t, err)

	// Values cascade with the attribute
	var count int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM attribute_values WHERE attribute_id = $1`, attributeID).Scan(&count)
	require.NoError(t, err)
	assert.Zero(t, count)

	// A second delete reports not found
	err = store.WithTx(ctx, func(tx pgx.Tx) error {
		return repo.DeleteAttribute(ctx, tx, attributeID)
	})
	require.Error(t, err)

	var notFound *model.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "attribute", notFound.Entity)
}
