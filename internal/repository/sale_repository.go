package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// saleRepository implements SaleRepository using PostgreSQL.
type saleRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSaleRepository creates a new PostgreSQL-backed sale repository.
func NewSaleRepository(pool *pgxpool.Pool, logger zerolog.Logger) SaleRepository {
	return &saleRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "sale").Logger(),
	}
}

// GetActiveSaleForProduct returns the sale covering the product at the given
// instant, or nil when none applies. The ORDER BY id DESC LIMIT 1 is the
// documented tie-break: when several sales overlap, the highest sale id wins.
func (r *saleRepository) GetActiveSaleForProduct(ctx context.Context, productID int64, at time.Time) (*model.Sale, error) {
	query := `
		SELECT s.id, s.name, s.discount_type, s.discount_value, s.starts_at, s.ends_at, s.created_at
		FROM sales s
		JOIN sale_products sp ON sp.sale_id = s.id
		WHERE sp.product_id = $1
		  AND s.starts_at <= $2
		  AND s.ends_at >= $2
		ORDER BY s.id DESC
		LIMIT 1
	`

	var s model.Sale
	err := r.pool.QueryRow(ctx, query, productID, at).Scan(
		&s.ID, &s.Name, &s.DiscountType, &s.DiscountValue,
		&s.StartsAt, &s.EndsAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query active sale")
		return nil, fmt.Errorf("failed to query active sale: %w", err)
	}

	return &s, nil
}

// UpsertCampaign inserts or updates a sale by name and replaces its product
// assignments within the caller's transaction.
func (r *saleRepository) UpsertCampaign(ctx context.Context, tx pgx.Tx, sale *model.Sale, productIDs []int64) error {
	upsert := `
		INSERT INTO sales (name, discount_type, discount_value, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE
		SET discount_type = EXCLUDED.discount_type,
		    discount_value = EXCLUDED.discount_value,
		    starts_at = EXCLUDED.starts_at,
		    ends_at = EXCLUDED.ends_at
		RETURNING id
	`

	var saleID int64
	err := tx.QueryRow(ctx, upsert,
		sale.Name, sale.DiscountType, sale.DiscountValue, sale.StartsAt, sale.EndsAt,
	).Scan(&saleID)
	if err != nil {
		r.logger.Error().Err(err).Str("sale", sale.Name).Msg("failed to upsert sale")
		return fmt.Errorf("failed to upsert sale %q: %w", sale.Name, err)
	}
	sale.ID = saleID

	if _, err := tx.Exec(ctx, `DELETE FROM sale_products WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("failed to clear sale assignments for %q: %w", sale.Name, err)
	}

	if len(productIDs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, pid := range productIDs {
		batch.Queue(`INSERT INTO sale_products (sale_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, saleID, pid)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(productIDs); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("sale", sale.Name).
				Int64("product_id", productIDs[i]).
				Msg("failed to assign product to sale")
			return fmt.Errorf("failed to assign product %d to sale %q: %w", productIDs[i], sale.Name, err)
		}
	}

	r.logger.Debug().
		Str("sale", sale.Name).
		Int64("sale_id", saleID).
		Int("products", len(productIDs)).
		Msg("sale campaign upserted")

	return nil
}
