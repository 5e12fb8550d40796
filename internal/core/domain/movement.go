// internal/core/domain/movement.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MovementType identifies the effect a ledger entry has on stock.
type MovementType string

// Movement type constants. The set is closed: Apply switches over it
// exhaustively, so adding a type is a compile-time decision.
const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementTransfer   MovementType = "TRANSFER"
	MovementReturn     MovementType = "RETURN"
)

// ParseMovementType converts a wire string into a MovementType.
func ParseMovementType(s string) (MovementType, error) {
	switch t := MovementType(s); t {
	case MovementIn, MovementOut, MovementAdjustment, MovementTransfer, MovementReturn:
		return t, nil
	default:
		return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown movement type %q", s)}
	}
}

// Movement is a single immutable entry in the stock ledger. Entries are
// append-only: there is no update or delete path anywhere in the system.
type Movement struct {
	ID        uuid.UUID    `json:"id"`
	ItemID    uuid.UUID    `json:"item_id"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Reason    string       `json:"reason,omitempty"`
	Reference string       `json:"reference,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	UserID    *uuid.UUID   `json:"user_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Validate performs domain validation on the movement. For ADJUSTMENT the
// quantity is the absolute target and may be zero; for every other type it
// is a delta and must be strictly positive.
func (m *Movement) Validate() error {
	if m.ItemID == uuid.Nil {
		return &ValidationError{Field: "item_id", Reason: "is required"}
	}
	if _, err := ParseMovementType(string(m.Type)); err != nil {
		return err
	}
	if m.Type == MovementAdjustment {
		if m.Quantity < 0 {
			return &ValidationError{Field: "quantity", Reason: "must be >= 0 for ADJUSTMENT"}
		}
		return nil
	}
	if m.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	return nil
}

// PrepareForStorage assigns the identity and timestamp before insert.
func (m *Movement) PrepareForStorage() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
}

// Apply projects the movement's effect onto the current quantity. It is a
// pure function: folding it over an item's full ledger history in commit
// order reproduces the stored quantity exactly. A rejected transition
// leaves the fold state untouched and returns a typed error.
func Apply(current int, m *Movement) (int, error) {
	if err := m.Validate(); err != nil {
		return current, err
	}

	switch m.Type {
	case MovementIn, MovementReturn:
		return current + m.Quantity, nil
	case MovementOut, MovementTransfer:
		if m.Quantity > current {
			return current, &InsufficientStockError{
				ItemID:    m.ItemID,
				Requested: m.Quantity,
				Available: current,
			}
		}
		return current - m.Quantity, nil
	case MovementAdjustment:
		return m.Quantity, nil
	default:
		return current, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown movement type %q", m.Type)}
	}
}

// StatusFor derives the persisted item status from a quantity. Low stock
// is deliberately a read-time query, never a stored status.
func StatusFor(quantity int) ItemStatus {
	if quantity == 0 {
		return StatusOutOfStock
	}
	return StatusActive
}

// MovementAggregate is a per-type sum over the ledger, used for reporting.
type MovementAggregate struct {
	Type          MovementType `json:"type"`
	TotalQuantity int64        `json:"total_quantity"`
	Count         int64        `json:"count"`
}
