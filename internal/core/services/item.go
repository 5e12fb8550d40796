// internal/core/services/item.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// ItemService handles item catalog business logic. After creation, stock
// levels are owned by the movement service; updates here never touch
// quantity or status.
type ItemService struct {
	scope  ports.TransactionScope
	repo   ports.ItemRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service.
func NewItemService(scope ports.TransactionScope, repo ports.ItemRepository, cache ports.CacheRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		scope:  scope,
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "item")),
	}
}

// CreateItem validates and stores a new item. A nonzero initial quantity is
// recorded as an opening ADJUSTMENT in the same transaction, so replaying
// the ledger from zero always reproduces the stored quantity.
func (s *ItemService) CreateItem(ctx context.Context, item *domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	existing, err := s.repo.FindBySKU(ctx, item.SKU)
	if err != nil {
		return fmt.Errorf("failed to check sku uniqueness: %w", err)
	}
	if existing != nil {
		return &domain.ConflictError{Entity: "item", Reason: fmt.Sprintf("sku %q already exists", item.SKU)}
	}

	item.PrepareForStorage()

	err = s.scope.Execute(ctx, func(repos ports.TxRepositories) error {
		if err := repos.Items().Save(ctx, item); err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}

		if item.Quantity > 0 {
			opening := &domain.Movement{
				ItemID:   item.ID,
				Type:     domain.MovementAdjustment,
				Quantity: item.Quantity,
				Reason:   "initial stock",
			}
			opening.PrepareForStorage()
			if err := repos.Movements().Insert(ctx, opening); err != nil {
				return fmt.Errorf("failed to record opening stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateStats(ctx)

	s.logger.InfoContext(ctx, "created item",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU),
		slog.Int("quantity", item.Quantity))

	return nil
}

// GetByID retrieves an item by ID.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, domain.NewNotFound("item", id)
	}
	return item, nil
}

// GetBySKU retrieves an item by its SKU.
func (s *ItemService) GetBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	if sku == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}

	item, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to get item by sku: %w", err)
	}
	if item == nil {
		return nil, &domain.NotFoundError{Entity: "item", ID: sku}
	}
	return item, nil
}

// UpdateItem updates descriptive fields of an existing item. Quantity and
// status from the payload are ignored; the stored values win.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) (*domain.Item, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if current == nil {
		return nil, domain.NewNotFound("item", id)
	}

	item.ID = id
	item.Quantity = current.Quantity
	item.Status = current.Status
	item.CreatedAt = current.CreatedAt

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if item.SKU != current.SKU {
		other, err := s.repo.FindBySKU(ctx, item.SKU)
		if err != nil {
			return nil, fmt.Errorf("failed to check sku uniqueness: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, &domain.ConflictError{Entity: "item", Reason: fmt.Sprintf("sku %q already exists", item.SKU)}
		}
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidateStats(ctx)

	s.logger.InfoContext(ctx, "updated item",
		slog.String("item_id", id.String()))

	return item, nil
}

// DeleteItem deletes an item, soft by default. The item's ledger entries are
// kept either way.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID, permanent bool) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return domain.NewNotFound("item", id)
	}

	if permanent {
		err = s.repo.Delete(ctx, id)
	} else {
		err = s.repo.SoftDelete(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.invalidateStats(ctx)

	s.logger.InfoContext(ctx, "deleted item",
		slog.String("item_id", id.String()),
		slog.Bool("permanent", permanent))

	return nil
}

// List retrieves items with filtering and pagination.
func (s *ItemService) List(ctx context.Context, params ports.ItemListParams) (*ports.ItemListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 1000 {
		params.PageSize = 50
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	totalPages := int(totalCount) / params.PageSize
	if int(totalCount)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.ItemListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

func (s *ItemService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "stats:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate stats cache",
			slog.String("error", err.Error()))
	}
}
