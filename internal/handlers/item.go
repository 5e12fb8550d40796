// internal/handlers/item.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// ItemHandler handles item HTTP requests
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "item")),
	}
}

// ItemRequest is the request body for creating or updating an item. The
// quantity field is honored only on create; updates ignore it.
type ItemRequest struct {
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	SupplierID  *uuid.UUID      `json:"supplier_id,omitempty"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	MaxQuantity *int            `json:"max_quantity,omitempty"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ToDomain converts the request to a domain model
func (r *ItemRequest) ToDomain() *domain.Item {
	return &domain.Item{
		SKU:         r.SKU,
		Barcode:     r.Barcode,
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		SupplierID:  r.SupplierID,
		Quantity:    r.Quantity,
		MinQuantity: r.MinQuantity,
		MaxQuantity: r.MaxQuantity,
		UnitCost:    r.UnitCost,
		UnitPrice:   r.UnitPrice,
	}
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	item := req.ToDomain()
	if err := h.service.CreateItem(ctx, item); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// GetItem handles GET /api/v1/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item ID format")
		return
	}

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// GetItemBySKU handles GET /api/v1/items/sku/{sku}
func (h *ItemHandler) GetItemBySKU(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := h.service.GetBySKU(ctx, r.PathValue("sku"))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// UpdateItem handles PUT /api/v1/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item ID format")
		return
	}

	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateItem(ctx, id, req.ToDomain())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid item ID format")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"

	if err := h.service.DeleteItem(ctx, id, permanent); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":   "item deleted",
		"id":        id.String(),
		"permanent": permanent,
	})
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseItemListParams(r)
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

func parseItemListParams(r *http.Request) (ports.ItemListParams, error) {
	params := ports.ItemListParams{
		Page:      1,
		PageSize:  50,
		SortOrder: "desc",
	}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			params.Page = n
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			params.PageSize = n
		}
	}

	params.Search = q.Get("search")
	params.LowStock = q.Get("low_stock") == "true"

	if raw := q.Get("status"); raw != "" {
		if raw != string(domain.StatusActive) && raw != string(domain.StatusOutOfStock) {
			return params, &domain.ValidationError{Field: "status", Reason: "unknown status"}
		}
		params.Status = raw
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "category_id", Reason: "invalid uuid"}
		}
		params.CategoryID = &id
	}
	if raw := q.Get("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, &domain.ValidationError{Field: "supplier_id", Reason: "invalid uuid"}
		}
		params.SupplierID = &id
	}

	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params, nil
}
