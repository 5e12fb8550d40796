// internal/adapters/db/txscope.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// transactionScope implements ports.TransactionScope on top of a pgx
// transaction. Each Execute call opens one transaction; the repositories it
// hands to fn share that transaction and die with it.
type transactionScope struct {
	db     *Database
	logger *slog.Logger
}

// NewTransactionScope creates a new transaction scope
func NewTransactionScope(db *Database, logger *slog.Logger) ports.TransactionScope {
	return &transactionScope{
		db:     db,
		logger: logger.With(slog.String("component", "tx_scope")),
	}
}

func (s *transactionScope) Execute(ctx context.Context, fn func(repos ports.TxRepositories) error) error {
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(&txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx pgx.Tx
}

func (r *txRepositories) Items() ports.TxItemRepository         { return &txItemRepository{tx: r.tx} }
func (r *txRepositories) Movements() ports.TxMovementRepository { return &txMovementRepository{tx: r.tx} }

type txItemRepository struct {
	tx pgx.Tx
}

// Save inserts the item row inside the open transaction so the row and its
// opening ledger entry commit or roll back together.
func (r *txItemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			id, sku, barcode, name, description,
			category_id, supplier_id, quantity, min_quantity, max_quantity,
			unit_cost, unit_price, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		) RETURNING created_at, updated_at`

	err := r.tx.QueryRow(ctx, query,
		item.ID, item.SKU, nullString(item.Barcode), item.Name, nullString(item.Description),
		item.CategoryID, item.SupplierID, item.Quantity, item.MinQuantity, item.MaxQuantity,
		item.UnitCost, item.UnitPrice, item.Status, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	return nil
}

// FindByIDForUpdate reads the item row under FOR UPDATE, serializing
// concurrent movements against the same item on the row lock.
func (r *txItemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT` + itemColumns + `
		FROM items
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`

	item, err := scanItem(r.tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock item: %w", err)
	}
	return item, nil
}

// SetQuantityAndStatus writes the projected quantity and derived status.
func (r *txItemRepository) SetQuantityAndStatus(ctx context.Context, id uuid.UUID, quantity int, status domain.ItemStatus) (*domain.Item, error) {
	query := `
		UPDATE items
		SET quantity = $2, status = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING` + itemColumns

	item, err := scanItem(r.tx.QueryRow(ctx, query, id, quantity, status))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NewNotFound("item", id)
		}
		return nil, fmt.Errorf("failed to set item quantity: %w", err)
	}
	return item, nil
}

type txMovementRepository struct {
	tx pgx.Tx
}

// Insert appends one entry to the ledger.
func (r *txMovementRepository) Insert(ctx context.Context, movement *domain.Movement) error {
	query := `
		INSERT INTO movements (
			id, item_id, type, quantity, reason, reference, notes, user_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.tx.Exec(ctx, query,
		movement.ID, movement.ItemID, movement.Type, movement.Quantity,
		nullString(movement.Reason), nullString(movement.Reference), nullString(movement.Notes),
		movement.UserID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement: %w", err)
	}
	return nil
}
