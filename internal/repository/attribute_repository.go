package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// attributeRepository implements AttributeRepository using PostgreSQL. All
// methods run against the caller's transaction: synchronising an attribute's
// value set is a single unit of work.
type attributeRepository struct {
	logger zerolog.Logger
}

// NewAttributeRepository creates a new PostgreSQL-backed attribute repository.
func NewAttributeRepository(logger zerolog.Logger) AttributeRepository {
	return &attributeRepository{
		logger: logger.With().Str("repository", "attribute").Logger(),
	}
}

// GetAttribute retrieves an attribute, or nil when absent.
func (r *attributeRepository) GetAttribute(ctx context.Context, tx pgx.Tx, id int64) (*model.Attribute, error) {
	var a model.Attribute
	err := tx.QueryRow(ctx, `SELECT id, name FROM attributes WHERE id = $1`, id).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("attribute_id", id).Msg("attribute not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("attribute_id", id).Msg("failed to query attribute")
		return nil, fmt.Errorf("failed to query attribute: %w", err)
	}
	return &a, nil
}

// GetValues retrieves the current values of an attribute.
func (r *attributeRepository) GetValues(ctx context.Context, tx pgx.Tx, attributeID int64) ([]model.AttributeValue, error) {
	query := `
		SELECT id, attribute_id, value
		FROM attribute_values
		WHERE attribute_id = $1
		ORDER BY id
	`

	rows, err := tx.Query(ctx, query, attributeID)
	if err != nil {
		r.logger.Error().Err(err).Int64("attribute_id", attributeID).Msg("failed to query attribute values")
		return nil, fmt.Errorf("failed to query attribute values: %w", err)
	}
	defer rows.Close()

	var values []model.AttributeValue
	for rows.Next() {
		var v model.AttributeValue
		if err := rows.Scan(&v.ID, &v.AttributeID, &v.Value); err != nil {
			return nil, fmt.Errorf("failed to scan attribute value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attribute values: %w", err)
	}

	return values, nil
}

// CountVariantRefs counts variant references for all candidate value ids in
// one query, so removal candidates are checked before any destructive
// statement runs.
func (r *attributeRepository) CountVariantRefs(ctx context.Context, tx pgx.Tx, valueIDs []int64) (map[int64]int, error) {
	refs := make(map[int64]int, len(valueIDs))
	if len(valueIDs) == 0 {
		return refs, nil
	}

	query := `
		SELECT attribute_value_id, COUNT(variant_id)
		FROM variant_attribute_values
		WHERE attribute_value_id = ANY($1)
		GROUP BY attribute_value_id
	`

	rows, err := tx.Query(ctx, query, valueIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(valueIDs)).Msg("failed to count variant references")
		return nil, fmt.Errorf("failed to count variant references: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reference count: %w", err)
		}
		refs[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference counts: %w", err)
	}

	return refs, nil
}

// AddValues inserts new values for an attribute in one batch.
func (r *attributeRepository) AddValues(ctx context.Context, tx pgx.Tx, attributeID int64, values []string) error {
	if len(values) == 0 {
		return nil
	}

	query := `
		INSERT INTO attribute_values (attribute_id, value)
		VALUES ($1, $2)
	`

	batch := &pgx.Batch{}
	for _, v := range values {
		batch.Queue(query, attributeID, v)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(values); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Int64("attribute_id", attributeID).
				Str("value", values[i]).
				Msg("failed to insert attribute value")
			return fmt.Errorf("failed to insert attribute value %q: %w", values[i], err)
		}
	}

	r.logger.Debug().
		Int64("attribute_id", attributeID).
		Int("count", len(values)).
		Msg("attribute values added")

	return nil
}

// DeleteValues removes values by id in one statement.
func (r *attributeRepository) DeleteValues(ctx context.Context, tx pgx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	if _, err := tx.Exec(ctx, `DELETE FROM attribute_values WHERE id = ANY($1)`, ids); err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to delete attribute values")
		return fmt.Errorf("failed to delete attribute values: %w", err)
	}

	r.logger.Debug().Int("count", len(ids)).Msg("attribute values deleted")
	return nil
}

// DeleteAttribute removes an attribute; cascade takes its values with it.
// Callers must have verified none of those values is still referenced.
func (r *attributeRepository) DeleteAttribute(ctx context.Context, tx pgx.Tx, id int64) error {
	tag, err := tx.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("attribute_id", id).Msg("failed to delete attribute")
		return fmt.Errorf("failed to delete attribute: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewNotFoundError("attribute", fmt.Sprintf("%d", id))
	}

	r.logger.Debug().Int64("attribute_id", id).Msg("attribute deleted")
	return nil
}
