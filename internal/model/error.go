package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeValueInUse        = "VALUE_IN_USE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodePersistence       = "PERSISTENCE_ERROR"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// ValidationError reports a malformed or missing request field. It is never
// retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is returned when a conditional stock decrement
// matched no row because the variant holds fewer units than requested. The
// enclosing transaction must be rolled back in full.
type InsufficientStockError struct {
	VariantID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %d: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// ValueInUseError is returned when an attribute value slated for removal is
// still referenced by at least one variant. The referencing count lets the
// caller know what to unlink first.
type ValueInUseError struct {
	AttributeID int64
	Value       string
	Variants    int
}

func (e *ValueInUseError) Error() string {
	return fmt.Sprintf("attribute value %q (attribute %d) is referenced by %d variant(s)",
		e.Value, e.AttributeID, e.Variants)
}

// NotFoundError identifies an unknown entity id.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// NewNotFoundError creates a not-found error for the given entity kind.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// PersistenceError wraps a transient store failure. The whole operation is
// safe to retry from validation since rollback leaves no partial state.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
