// internal/core/ports/movement_service.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// RecordMovementParams carries everything needed to append a ledger entry.
type RecordMovementParams struct {
	ItemID    uuid.UUID
	Type      domain.MovementType
	Quantity  int
	Reason    string
	Reference string
	Notes     string
	UserID    *uuid.UUID
}

// MovementResult reports the ledger entry together with the item state it
// produced, so callers see the quantity transition in one response.
type MovementResult struct {
	Movement         *domain.Movement `json:"movement"`
	PreviousQuantity int              `json:"previous_quantity"`
	NewQuantity      int              `json:"new_quantity"`
	Status           domain.ItemStatus `json:"status"`
}

// MovementService is the application service port for the stock ledger.
type MovementService interface {
	// RecordMovement validates, locks the item, projects the new quantity
	// and appends the ledger entry atomically.
	RecordMovement(ctx context.Context, params RecordMovementParams) (*MovementResult, error)
	// AdjustQuantity records an ADJUSTMENT movement setting the absolute
	// quantity of the item.
	AdjustQuantity(ctx context.Context, itemID uuid.UUID, quantity int, reason string, userID *uuid.UUID) (*MovementResult, error)

	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error)
	ListByItem(ctx context.Context, itemID uuid.UUID, page Page) (*MovementListResult, error)
	List(ctx context.Context, params MovementListParams) (*MovementListResult, error)
	ListByDateRange(ctx context.Context, from, to time.Time, page Page) (*MovementListResult, error)
	Aggregate(ctx context.Context, itemID *uuid.UUID) ([]domain.MovementAggregate, error)
}
