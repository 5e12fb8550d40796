// internal/handlers/catalog.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// CatalogHandler handles category, supplier and user HTTP requests.
type CatalogHandler struct {
	categories ports.CategoryService
	suppliers  ports.SupplierService
	users      ports.UserService
	logger     *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	categories ports.CategoryService,
	suppliers ports.SupplierService,
	users ports.UserService,
	logger *slog.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		categories: categories,
		suppliers:  suppliers,
		users:      users,
		logger:     logger.With(slog.String("handler", "catalog")),
	}
}

// CreateCategory handles POST /api/v1/categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.categories.Create(r.Context(), &category); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, category)
}

// GetCategory handles GET /api/v1/categories/{id}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid category ID format")
		return
	}

	category, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, category)
}

// UpdateCategory handles PUT /api/v1/categories/{id}
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid category ID format")
		return
	}

	var category domain.Category
	if err := json.NewDecoder(r.Body).Decode(&category); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.categories.Update(r.Context(), id, &category)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/v1/categories/{id}
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid category ID format")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := h.categories.Delete(r.Context(), id, permanent); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "category deleted"})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	categories, total, err := h.categories.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"categories":  categories,
		"total_count": total,
		"page":        page.Number,
		"page_size":   page.Limit(),
	})
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *CatalogHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.suppliers.Create(r.Context(), &supplier); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, supplier)
}

// GetSupplier handles GET /api/v1/suppliers/{id}
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid supplier ID format")
		return
	}

	supplier, err := h.suppliers.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, supplier)
}

// UpdateSupplier handles PUT /api/v1/suppliers/{id}
func (h *CatalogHandler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid supplier ID format")
		return
	}

	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.suppliers.Update(r.Context(), id, &supplier)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteSupplier handles DELETE /api/v1/suppliers/{id}
func (h *CatalogHandler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid supplier ID format")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := h.suppliers.Delete(r.Context(), id, permanent); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "supplier deleted"})
}

// ListSuppliers handles GET /api/v1/suppliers
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	suppliers, total, err := h.suppliers.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"suppliers":   suppliers,
		"total_count": total,
		"page":        page.Number,
		"page_size":   page.Limit(),
	})
}

// CreateUser handles POST /api/v1/users
func (h *CatalogHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.users.Create(r.Context(), &user); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusCreated, user)
}

// GetUser handles GET /api/v1/users/{id}
func (h *CatalogHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid user ID format")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, user)
}

// UpdateUser handles PUT /api/v1/users/{id}
func (h *CatalogHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid user ID format")
		return
	}

	var user domain.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.users.Update(r.Context(), id, &user)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeleteUser handles DELETE /api/v1/users/{id}
func (h *CatalogHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid user ID format")
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	if err := h.users.Delete(r.Context(), id, permanent); err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "user deleted"})
}

// ListUsers handles GET /api/v1/users
func (h *CatalogHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"users":       users,
		"total_count": total,
		"page":        page.Number,
		"page_size":   page.Limit(),
	})
}
