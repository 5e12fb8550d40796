// internal/core/domain/item.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the persisted item status. It is derived from the
// quantity on every committed movement; callers never set it directly.
type ItemStatus string

const (
	StatusActive     ItemStatus = "ACTIVE"
	StatusOutOfStock ItemStatus = "OUT_OF_STOCK"
)

// Item represents a single stocked product. Quantity is the fold of the
// item's movement ledger since creation and is mutated only through the
// movement service; general updates never touch it.
type Item struct {
	ID          uuid.UUID       `json:"id"`
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
	Status      ItemStatus      `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`
}

// Validate performs domain validation on the item.
func (i *Item) Validate() error {
	if i.SKU == "" {
		return &ValidationError{Field: "sku", Reason: "is required"}
	}
	if i.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if i.Quantity < 0 {
		return &ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if i.MinQuantity < 0 {
		return &ValidationError{Field: "min_quantity", Reason: "cannot be negative"}
	}
	if i.MaxQuantity != nil && *i.MaxQuantity < i.MinQuantity {
		return &ValidationError{Field: "max_quantity", Reason: "must be >= min_quantity"}
	}
	if i.UnitCost.IsNegative() {
		return &ValidationError{Field: "unit_cost", Reason: "cannot be negative"}
	}
	if i.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unit_price", Reason: "cannot be negative"}
	}
	return nil
}

// PrepareForStorage assigns identity, timestamps and derived status.
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now

	i.Status = StatusFor(i.Quantity)
}

// IsLowStock reports whether the quantity has fallen to or below the
// configured minimum. Computed at read time only.
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// StockValue returns the cost-basis value of the stock on hand.
func (i *Item) StockValue() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
