// internal/handlers/movement.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// MovementHandler handles stock ledger HTTP requests
type MovementHandler struct {
	service ports.MovementService
	logger  *slog.Logger
}

// NewMovementHandler creates a new movement handler
func NewMovementHandler(service ports.MovementService, logger *slog.Logger) *MovementHandler {
	return &MovementHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "movement")),
	}
}

// CreateMovementRequest is the request body for recording a movement
type CreateMovementRequest struct {
	ItemID    uuid.UUID  `json:"item_id"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	Reason    string     `json:"reason,omitempty"`
	Reference string     `json:"reference,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
}

// Validate validates the create movement request
func (r *CreateMovementRequest) Validate() error {
	if r.ItemID == uuid.Nil {
		return &domain.ValidationError{Field: "item_id", Reason: "is required"}
	}
	if _, err := domain.ParseMovementType(r.Type); err != nil {
		return err
	}
	return nil
}

// ToParams converts the request into service parameters
func (r *CreateMovementRequest) ToParams() ports.RecordMovementParams {
	return ports.RecordMovementParams{
		ItemID:    r.ItemID,
		Type:      domain.MovementType(r.Type),
		Quantity:  r.Quantity,
		Reason:    r.Reason,
		Reference: r.Reference,
		Notes:     r.Notes,
		UserID:    r.UserID,
	}
}

// CreateMovement handles POST /api/v1/movements
func (h *MovementHandler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	result, err := h.service.RecordMovement(ctx, req.ToParams())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, result)
}

// AdjustQuantityRequest is the request body for an absolute adjustment
type AdjustQuantityRequest struct {
	Quantity int        `json:"quantity"`
	Reason   string     `json:"reason,omitempty"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
}

// AdjustQuantity handles POST /api/v1/items/{id}/adjust
func (h *MovementHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item ID format")
		return
	}

	var req AdjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.AdjustQuantity(ctx, itemID, req.Quantity, req.Reason, req.UserID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetMovement handles GET /api/v1/movements/{id}
func (h *MovementHandler) GetMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid movement ID format")
		return
	}

	movement, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, movement)
}

// ListMovements handles GET /api/v1/movements
func (h *MovementHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseMovementListParams(r)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	result, err := h.service.List(ctx, params)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListMovementsByRange handles GET /api/v1/movements/range. Both bounds are
// required; open-ended filtering goes through GET /api/v1/movements.
func (h *MovementHandler) ListMovementsByRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		respondDomainError(w, h.logger, &domain.ValidationError{Field: "from", Reason: "must be RFC3339"})
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		respondDomainError(w, h.logger, &domain.ValidationError{Field: "to", Reason: "must be RFC3339"})
		return
	}

	result, err := h.service.ListByDateRange(ctx, from, to, parsePage(r))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// ListItemMovements handles GET /api/v1/items/{id}/movements
func (h *MovementHandler) ListItemMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	itemID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item ID format")
		return
	}

	result, err := h.service.ListByItem(ctx, itemID, parsePage(r))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// AggregateMovements handles GET /api/v1/movements/aggregate
func (h *MovementHandler) AggregateMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var itemID *uuid.UUID
	if raw := r.URL.Query().Get("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid item_id format")
			return
		}
		itemID = &id
	}

	aggregates, err := h.service.Aggregate(ctx, itemID)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"aggregates": aggregates,
	})
}

func parseMovementListParams(r *http.Request) (ports.MovementListParams, error) {
	params := ports.MovementListParams{Page: parsePage(r)}
	q := r.URL.Query()

	if raw := q.Get("item_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "item_id", Reason: "invalid uuid"}
		}
		params.ItemID = &id
	}
	if raw := q.Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "user_id", Reason: "invalid uuid"}
		}
		params.UserID = &id
	}
	if raw := q.Get("type"); raw != "" {
		t, err := domain.ParseMovementType(raw)
		if err != nil {
			return params, err
		}
		params.Type = t
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "from", Reason: "must be RFC3339"}
		}
		params.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "to", Reason: "must be RFC3339"}
		}
		params.To = &to
	}
	if params.From != nil && params.To != nil && params.To.Before(*params.From) {
		return params, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	return params, nil
}

func parsePage(r *http.Request) ports.Page {
	page := ports.Page{Number: 1, Size: 50}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Number = n
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			page.Size = n
		}
	}
	return page
}
