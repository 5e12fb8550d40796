// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// errorResponse is the uniform error body for every non-2xx response.
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Available *int   `json:"available,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, errorResponse{Error: message})
}

// respondDomainError maps the typed business errors onto HTTP statuses.
// Unknown errors deliberately collapse to 500 with a generic body so that
// storage details never leak to clients.
func respondDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		respondJSON(w, logger, http.StatusNotFound, errorResponse{Error: nf.Error()})
		return
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		respondJSON(w, logger, http.StatusBadRequest, errorResponse{Error: ve.Error(), Field: ve.Field})
		return
	}

	var is *domain.InsufficientStockError
	if errors.As(err, &is) {
		available := is.Available
		respondJSON(w, logger, http.StatusConflict, errorResponse{
			Error:     is.Error(),
			Available: &available,
		})
		return
	}

	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		respondJSON(w, logger, http.StatusConflict, errorResponse{Error: ce.Error()})
		return
	}

	logger.Error("request failed",
		slog.String("error", err.Error()))
	respondError(w, logger, http.StatusInternalServerError, "internal server error")
}
