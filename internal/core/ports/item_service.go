// internal/core/ports/item_service.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// ItemService is the application service port for item CRUD. Quantity and
// status never pass through here; they belong to the movement service.
type ItemService interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID, permanent bool) error
	List(ctx context.Context, params ItemListParams) (*ItemListResult, error)
}

// CategoryService is the application service port for categories.
type CategoryService interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID, permanent bool) error
	List(ctx context.Context, page Page) ([]domain.Category, int64, error)
}

// SupplierService is the application service port for suppliers.
type SupplierService interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, supplier *domain.Supplier) (*domain.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID, permanent bool) error
	List(ctx context.Context, page Page) ([]domain.Supplier, int64, error)
}

// UserService is the application service port for attribution users.
type UserService interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID, permanent bool) error
	List(ctx context.Context, page Page) ([]domain.User, int64, error)
}
