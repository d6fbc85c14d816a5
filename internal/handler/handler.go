package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto the API error taxonomy.
// Validation errors are 400, missing entities 404, stock shortfalls and
// in-use conflicts 409; anything else is treated as a transient persistence
// failure that the client may retry whole.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var validationErr *model.ValidationError
	var notFoundErr *model.NotFoundError
	var stockErr *model.InsufficientStockError
	var inUseErr *model.ValueInUseError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, validationErr.Error(), logger)
	case errors.As(err, &notFoundErr):
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, notFoundErr.Error(), logger)
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, struct {
			Error     string `json:"error"`
			Message   string `json:"message"`
			VariantID int64  `json:"variantId"`
			Requested int    `json:"requested"`
			Available int    `json:"available"`
		}{
			Error:     model.ErrCodeInsufficientStock,
			Message:   stockErr.Error(),
			VariantID: stockErr.VariantID,
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		})
	case errors.As(err, &inUseErr):
		writeJSON(w, http.StatusConflict, struct {
			Error       string `json:"error"`
			Message     string `json:"message"`
			AttributeID int64  `json:"attributeId"`
			Value       string `json:"value"`
			Variants    int    `json:"variants"`
		}{
			Error:       model.ErrCodeValueInUse,
			Message:     inUseErr.Error(),
			AttributeID: inUseErr.AttributeID,
			Value:       inUseErr.Value,
			Variants:    inUseErr.Variants,
		})
	default:
		writeError(w, http.StatusInternalServerError, model.ErrCodePersistence,
			"operation failed, safe to retry", logger)
	}
}
