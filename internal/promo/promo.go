// Package promo ingests sale campaign feed files. Feeds are gzipped
// JSON-lines documents produced by the merchandising collaborator, fetched
// from S3 with a local file-system fallback, and reconciled into the sales
// tables in one transaction at startup.
package promo

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
)

// Campaign is one sale definition as it appears in a feed file.
type Campaign struct {
	Name          string    `json:"name"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	ProductIDs    []int64   `json:"productIds"`
}

// Validate rejects malformed campaigns before anything touches the store.
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("campaign name is required")
	}
	if !model.ValidDiscountType(model.DiscountType(c.DiscountType)) {
		return fmt.Errorf("campaign %q: unknown discount type %q", c.Name, c.DiscountType)
	}
	if c.DiscountValue < 0 {
		return fmt.Errorf("campaign %q: discount value cannot be negative", c.Name)
	}
	if model.DiscountType(c.DiscountType) == model.DiscountPercentage && c.DiscountValue > 100 {
		return fmt.Errorf("campaign %q: percentage discount cannot exceed 100", c.Name)
	}
	if c.StartsAt.After(c.EndsAt) {
		return fmt.Errorf("campaign %q: start must not be after end", c.Name)
	}
	return nil
}

// Sale converts the campaign into its persisted form.
func (c *Campaign) Sale() *model.Sale {
	return &model.Sale{
		Name:          c.Name,
		DiscountType:  model.DiscountType(c.DiscountType),
		DiscountValue: c.DiscountValue,
		StartsAt:      c.StartsAt,
		EndsAt:        c.EndsAt,
	}
}

// Loader defines the interface for loading campaign feed files.
type Loader interface {
	// Load reads a gzipped JSON-lines feed file and returns its campaigns.
	Load(ctx context.Context, filePath string) ([]Campaign, error)
}
