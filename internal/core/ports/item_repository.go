// internal/core/ports/item_repository.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// ItemRepository defines the persistence port for items. Lookups return
// (nil, nil) when no row matches; services map that to a NotFoundError.
//
// Update never writes quantity or status: those two columns change only
// inside the movement transaction scope.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Item, error)
	FindAll(ctx context.Context, params ItemListParams) ([]*domain.Item, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

// ItemListParams holds filters and pagination for listing items.
type ItemListParams struct {
	Search     string
	CategoryID *uuid.UUID
	SupplierID *uuid.UUID
	Status     string
	LowStock   bool
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// ItemListResult is a paginated page of items.
type ItemListResult struct {
	Items      []*domain.Item `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalCount int64          `json:"total_count"`
	TotalPages int            `json:"total_pages"`
}
