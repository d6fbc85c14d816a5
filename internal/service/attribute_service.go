package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// attributeService implements AttributeService. Synchronisation is computed
// as explicit set differences applied in batches, and every removal candidate
// is checked for variant references before any destructive statement runs.
type attributeService struct {
	store  repository.TxRunner
	repo   repository.AttributeRepository
	logger zerolog.Logger
}

// NewAttributeService creates a new attribute integrity service.
func NewAttributeService(
	store repository.TxRunner,
	repo repository.AttributeRepository,
	logger zerolog.Logger,
) AttributeService {
	return &attributeService{
		store:  store,
		repo:   repo,
		logger: logger.With().Str("service", "attribute").Logger(),
	}
}

// SyncValues reconciles an attribute's value set against the desired set in
// one transaction. Additions and permitted removals all commit together; a
// single in-use removal candidate aborts everything.
func (s *attributeService) SyncValues(ctx context.Context, attributeID int64, desired []string) ([]model.AttributeValue, error) {
	wanted, err := normaliseValues(desired)
	if err != nil {
		return nil, err
	}

	var result []model.AttributeValue

	err = s.store.WithTx(ctx, func(tx pgx.Tx) error {
		attr, err := s.repo.GetAttribute(ctx, tx, attributeID)
		if err != nil {
			return err
		}
		if attr == nil {
			return model.NewNotFoundError("attribute", fmt.Sprintf("%d", attributeID))
		}

		current, err := s.repo.GetValues(ctx, tx, attributeID)
		if err != nil {
			return err
		}

		// toAdd = desired - current, toRemove = current - desired, both by
		// trimmed text equality, computed once.
		currentByText := make(map[string]model.AttributeValue, len(current))
		for _, v := range current {
			currentByText[strings.TrimSpace(v.Value)] = v
		}

		var toAdd []string
		for _, w := range wanted {
			if _, ok := currentByText[w]; !ok {
				toAdd = append(toAdd, w)
			}
		}

		wantedSet := make(map[string]struct{}, len(wanted))
		for _, w := range wanted {
			wantedSet[w] = struct{}{}
		}

		var toRemove []model.AttributeValue
		removeIDs := make([]int64, 0)
		for _, v := range current {
			if _, ok := wantedSet[strings.TrimSpace(v.Value)]; !ok {
				toRemove = append(toRemove, v)
				removeIDs = append(removeIDs, v.ID)
			}
		}

		// Check-then-act: every removal candidate is verified before the
		// first delete executes.
		refs, err := s.repo.CountVariantRefs(ctx, tx, removeIDs)
		if err != nil {
			return err
		}
		for _, v := range toRemove {
			if count := refs[v.ID]; count > 0 {
				s.logger.Warn().
					Int64("attribute_id", attributeID).
					Str("value", v.Value).
					Int("variants", count).
					Msg("value sync rejected: value in use")
				return &model.ValueInUseError{
					AttributeID: attributeID,
					Value:       v.Value,
					Variants:    count,
				}
			}
		}

		if err := s.repo.AddValues(ctx, tx, attributeID, toAdd); err != nil {
			return err
		}
		if err := s.repo.DeleteValues(ctx, tx, removeIDs); err != nil {
			return err
		}

		result, err = s.repo.GetValues(ctx, tx, attributeID)
		if err != nil {
			return err
		}

		s.logger.Info().
			Int64("attribute_id", attributeID).
			Int("added", len(toAdd)).
			Int("removed", len(removeIDs)).
			Msg("attribute values synchronised")

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteAttribute removes an attribute after verifying that none of its
// values is referenced by a variant. The check and the delete share one
// transaction.
func (s *attributeService) DeleteAttribute(ctx context.Context, attributeID int64) error {
	err := s.store.WithTx(ctx, func(tx pgx.Tx) error {
		attr, err := s.repo.GetAttribute(ctx, tx, attributeID)
		if err != nil {
			return err
		}
		if attr == nil {
			return model.NewNotFoundError("attribute", fmt.Sprintf("%d", attributeID))
		}

		values, err := s.repo.GetValues(ctx, tx, attributeID)
		if err != nil {
			return err
		}

		ids := make([]int64, len(values))
		for i, v := range values {
			ids[i] = v.ID
		}

		refs, err := s.repo.CountVariantRefs(ctx, tx, ids)
		if err != nil {
			return err
		}
		for _, v := range values {
			if count := refs[v.ID]; count > 0 {
				s.logger.Warn().
					Int64("attribute_id", attributeID).
					Str("value", v.Value).
					Int("variants", count).
					Msg("attribute deletion rejected: value in use")
				return &model.ValueInUseError{
					AttributeID: attributeID,
					Value:       v.Value,
					Variants:    count,
				}
			}
		}

		return s.repo.DeleteAttribute(ctx, tx, attributeID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("attribute_id", attributeID).Msg("attribute deleted")
	return nil
}

// normaliseValues trims and deduplicates the desired value set, rejecting
// blank entries.
func normaliseValues(desired []string) ([]string, error) {
	seen := make(map[string]struct{}, len(desired))
	out := make([]string, 0, len(desired))
	for i, v := range desired {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, model.NewValidationError(
				fmt.Sprintf("values[%d]", i), "value cannot be blank")
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out, nil
}
