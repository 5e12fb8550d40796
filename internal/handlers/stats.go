// internal/handlers/stats.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mmammidi/inventory-management-api/internal/core/services"
)

// StatsHandler exposes the inventory dashboard endpoints.
type StatsHandler struct {
	service *services.StatsService
	logger  *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(service *services.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "stats")),
	}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetInventoryStats(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, stats)
}

// GetLowStock handles GET /api/v1/stats/low-stock
func (h *StatsHandler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.service.LowStockItems(r.Context(), limit)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}
