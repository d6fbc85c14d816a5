package promo

import (
	"context"
	"fmt"

	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Importer reconciles campaign feeds into the sales tables. All campaigns
// from all feed files land in one transaction, so a malformed feed never
// leaves a half-imported promotional state behind.
type Importer struct {
	store  repository.TxRunner
	sales  repository.SaleRepository
	loader Loader
	logger zerolog.Logger
}

// NewImporter creates a campaign feed importer.
func NewImporter(store repository.TxRunner, sales repository.SaleRepository, loader Loader, logger zerolog.Logger) *Importer {
	return &Importer{
		store:  store,
		sales:  sales,
		loader: loader,
		logger: logger.With().Str("component", "promo-importer").Logger(),
	}
}

// Import loads every feed file and upserts the campaigns it finds. Returns
// the number of campaigns imported.
func (i *Importer) Import(ctx context.Context, feedPaths []string) (int, error) {
	var campaigns []Campaign
	for _, path := range feedPaths {
		loaded, err := i.loader.Load(ctx, path)
		if err != nil {
			return 0, fmt.Errorf("failed to load campaign feed %s: %w", path, err)
		}
		campaigns = append(campaigns, loaded...)
	}

	if len(campaigns) == 0 {
		i.logger.Info().Msg("no campaigns found in feeds")
		return 0, nil
	}

	err := i.store.WithTx(ctx, func(tx pgx.Tx) error {
		for _, c := range campaigns {
			if err := i.sales.UpsertCampaign(ctx, tx, c.Sale(), c.ProductIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		i.logger.Error().Err(err).Msg("campaign import rolled back")
		return 0, err
	}

	i.logger.Info().
		Int("campaigns", len(campaigns)).
		Int("feeds", len(feedPaths)).
		Msg("campaign feeds imported")

	return len(campaigns), nil
}
