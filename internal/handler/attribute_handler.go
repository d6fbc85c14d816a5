package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AttributeHandler handles attribute-integrity HTTP requests.
type AttributeHandler struct {
	service service.AttributeService
	logger  zerolog.Logger
}

// NewAttributeHandler creates a new attribute handler.
func NewAttributeHandler(service service.AttributeService, logger zerolog.Logger) *AttributeHandler {
	return &AttributeHandler{
		service: service,
		logger:  logger.With().Str("handler", "attribute").Logger(),
	}
}

// syncValuesRequest is the payload for PUT /api/attributes/{id}/values.
type syncValuesRequest struct {
	Values []string `json:"values"`
}

// syncValuesResponse returns the reconciled value set.
type syncValuesResponse struct {
	OK     bool                   `json:"ok"`
	Values []model.AttributeValue `json:"values"`
}

// SyncValues handles PUT /api/attributes/{id}/values requests.
func (h *AttributeHandler) SyncValues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	attributeID, ok := h.attributeID(w, strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/attributes/"), "/values"))
	if !ok {
		return
	}

	var req syncValuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	values, err := h.service.SyncValues(r.Context(), attributeID, req.Values)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, syncValuesResponse{OK: true, Values: values})
}

// Delete handles DELETE /api/attributes/{id} requests.
func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	attributeID, ok := h.attributeID(w, strings.TrimPrefix(r.URL.Path, "/api/attributes/"))
	if !ok {
		return
	}

	if err := h.service.DeleteAttribute(r.Context(), attributeID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// attributeID parses the attribute id path segment.
func (h *AttributeHandler) attributeID(w http.ResponseWriter, idStr string) (int64, bool) {
	if idStr == "" || strings.Contains(idStr, "/") {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "attribute ID is required", h.logger)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid attribute ID format", h.logger)
		return 0, false
	}

	return id, true
}
