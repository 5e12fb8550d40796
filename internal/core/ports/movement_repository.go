// internal/core/ports/movement_repository.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// MovementRepository defines the read side of the stock ledger. The ledger
// is append-only; the only insert path is the transaction scope, so this
// port carries no mutating methods at all.
type MovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error)
	FindByItem(ctx context.Context, itemID uuid.UUID, page Page) ([]domain.Movement, int64, error)
	FindByType(ctx context.Context, movementType domain.MovementType, page Page) ([]domain.Movement, int64, error)
	FindByDateRange(ctx context.Context, from, to time.Time, page Page) ([]domain.Movement, int64, error)
	FindAll(ctx context.Context, params MovementListParams) ([]domain.Movement, int64, error)
	Recent(ctx context.Context, n int) ([]domain.Movement, error)
	// Aggregate sums quantities grouped by movement type, optionally
	// restricted to a single item. Reflects committed transactions only.
	Aggregate(ctx context.Context, itemID *uuid.UUID) ([]domain.MovementAggregate, error)
	// ReplayQuantity folds every committed movement of an item in commit
	// order and returns the resulting quantity. Used by reconciliation.
	ReplayQuantity(ctx context.Context, itemID uuid.UUID) (int, error)
}

// Page is plain limit/offset pagination, ordered by created_at descending.
type Page struct {
	Number int
	Size   int
}

// Limit returns the effective page size, clamped to [1, 1000].
func (p Page) Limit() int {
	if p.Size <= 0 {
		return 50
	}
	if p.Size > 1000 {
		return 1000
	}
	return p.Size
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Limit()
}

// MovementListParams holds combined filters for listing ledger entries.
type MovementListParams struct {
	ItemID *uuid.UUID
	Type   domain.MovementType
	UserID *uuid.UUID
	From   *time.Time
	To     *time.Time
	Page   Page
}

// MovementListResult is a paginated page of ledger entries.
type MovementListResult struct {
	Movements  []domain.Movement `json:"movements"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}
