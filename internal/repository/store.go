package repository

import (
	"context"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store owns the connection pool and hands out transaction scopes. Services
// go through Store.WithTx for every multi-step mutation so reservation,
// persistence and header updates share one unit of work.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStore creates a transaction runner backed by the given pool.
func NewStore(pool *pgxpool.Pool, logger zerolog.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: logger.With().Str("component", "store").Logger(),
	}
}

// WithTx runs fn inside one transaction, committing on success and rolling
// back on any error or panic.
func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	err := database.WithTx(ctx, s.pool, fn)
	if err != nil {
		s.logger.Debug().Err(err).Msg("transaction rolled back")
	}
	return err
}
