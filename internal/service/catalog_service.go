package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService. Display prices go through the
// same pricing resolver as order validation, so what the client sees is what
// the server later accepts.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	saleRepo    repository.SaleRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue read service.
func NewCatalogService(
	catalogRepo repository.CatalogRepository,
	saleRepo repository.SaleRepository,
	logger zerolog.Logger,
) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		saleRepo:    saleRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// GetProducts retrieves products with sale-adjusted variant prices.
func (s *catalogService) GetProducts(ctx context.Context, limit, offset int) ([]model.ProductView, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.catalogRepo.GetProducts(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	now := time.Now()
	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		view, err := s.buildView(ctx, p, now)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	s.logger.Debug().
		Int("count", len(views)).
		Int("limit", limit).
		Int("offset", offset).
		Msg("retrieved products")

	return views, nil
}

// GetProductByID retrieves a single priced product, or nil when absent.
func (s *catalogService) GetProductByID(ctx context.Context, id int64) (*model.ProductView, error) {
	if id <= 0 {
		return nil, model.NewValidationError("id", "product id is required")
	}

	product, err := s.catalogRepo.GetProductByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, nil
	}

	return s.buildView(ctx, *product, time.Now())
}

func (s *catalogService) buildView(ctx context.Context, p model.Product, now time.Time) (*model.ProductView, error) {
	sale, err := s.saleRepo.GetActiveSaleForProduct(ctx, p.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sale for product %d: %w", p.ID, err)
	}

	variants, err := s.catalogRepo.GetVariantsByProduct(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants for product %d: %w", p.ID, err)
	}

	views := make([]model.VariantView, len(variants))
	for i, v := range variants {
		views[i] = model.VariantView{
			Variant:        v,
			EffectivePrice: pricing.EffectivePrice(v.Price, sale),
		}
	}

	return &model.ProductView{
		Product:  p,
		Variants: views,
		Sale:     sale,
	}, nil
}
