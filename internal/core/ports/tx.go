// internal/core/ports/tx.go
package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// TransactionScope runs a function inside a single database transaction.
// If fn returns an error the transaction rolls back; otherwise it commits.
// The scope is the only place where a ledger insert and an item quantity
// update can be observed together, which makes the atomicity contract
// visible at the type level instead of by convention.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TxRepositories) error) error
}

// TxRepositories exposes the repositories bound to the open transaction.
type TxRepositories interface {
	Items() TxItemRepository
	Movements() TxMovementRepository
}

// TxItemRepository is the transaction-bound slice of the item store.
type TxItemRepository interface {
	// Save inserts a new item row. Creating an item with opening stock
	// writes the row and its opening ledger entry in the same transaction.
	Save(ctx context.Context, item *domain.Item) error
	// FindByIDForUpdate reads the item row under a row-level lock,
	// serializing concurrent movements against the same item. Returns
	// (nil, nil) when the item does not exist.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	// SetQuantityAndStatus writes the projected quantity and derived
	// status. No other item field is touched.
	SetQuantityAndStatus(ctx context.Context, id uuid.UUID, quantity int, status domain.ItemStatus) (*domain.Item, error)
}

// TxMovementRepository is the transaction-bound append side of the ledger.
type TxMovementRepository interface {
	Insert(ctx context.Context, movement *domain.Movement) error
}
