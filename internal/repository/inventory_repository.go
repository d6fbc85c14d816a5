package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// inventoryRepository implements InventoryRepository using conditional
// updates. Stock safety rests entirely on the row-level guard in the UPDATE:
// two concurrent reservations against the same variant are serialised by the
// database, never by in-process locks, so the scheme holds across multiple
// server instances.
type inventoryRepository struct {
	logger zerolog.Logger
}

// NewInventoryRepository creates the PostgreSQL-backed inventory ledger.
func NewInventoryRepository(logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// Reserve decrements a variant's quantity iff the current quantity covers the
// request. The condition lives in the UPDATE itself, not in a prior read, so
// concurrent reservations can never drive stock negative.
func (r *inventoryRepository) Reserve(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error {
	query := `
		UPDATE variants
		SET quantity = quantity - $2
		WHERE id = $1 AND quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, variantID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("variant_id", variantID).
			Int("quantity", quantity).
			Msg("failed to reserve stock")
		return fmt.Errorf("failed to reserve stock for variant %d: %w", variantID, err)
	}

	if tag.RowsAffected() > 0 {
		r.logger.Debug().
			Int64("variant_id", variantID).
			Int("quantity", quantity).
			Msg("stock reserved")
		return nil
	}

	// Zero rows: either the variant is gone (a consistency error, never
	// swallowed) or stock fell short.
	var available int
	err = tx.QueryRow(ctx, `SELECT quantity FROM variants WHERE id = $1`, variantID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Error().
				Int64("variant_id", variantID).
				Msg("reservation against nonexistent variant")
			return model.NewNotFoundError("variant", fmt.Sprintf("%d", variantID))
		}
		return fmt.Errorf("failed to query variant %d stock: %w", variantID, err)
	}

	r.logger.Warn().
		Int64("variant_id", variantID).
		Int("requested", quantity).
		Int("available", available).
		Msg("insufficient stock")

	return &model.InsufficientStockError{
		VariantID: variantID,
		Requested: quantity,
		Available: available,
	}
}

// Release returns previously reserved units to a variant. Stock can always be
// returned; callers guarantee each originally-reserved unit is released at
// most once.
func (r *inventoryRepository) Release(ctx context.Context, tx pgx.Tx, variantID int64, quantity int) error {
	query := `
		UPDATE variants
		SET quantity = quantity + $2
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, variantID, quantity)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("variant_id", variantID).
			Int("quantity", quantity).
			Msg("failed to release stock")
		return fmt.Errorf("failed to release stock for variant %d: %w", variantID, err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Error().
			Int64("variant_id", variantID).
			Msg("release against nonexistent variant")
		return model.NewNotFoundError("variant", fmt.Sprintf("%d", variantID))
	}

	r.logger.Debug().
		Int64("variant_id", variantID).
		Int("quantity", quantity).
		Msg("stock released")

	return nil
}
