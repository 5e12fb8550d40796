// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

const itemColumns = `
	id, sku, barcode, name, description,
	category_id, supplier_id, quantity, min_quantity, max_quantity,
	unit_cost, unit_price, status, created_at, updated_at`

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "item")),
	}
}

// Save creates a new item
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			id, sku, barcode, name, description,
			category_id, supplier_id, quantity, min_quantity, max_quantity,
			unit_cost, unit_price, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15
		) RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.SKU, nullString(item.Barcode), item.Name, nullString(item.Description),
		item.CategoryID, item.SupplierID, item.Quantity, item.MinQuantity, item.MaxQuantity,
		item.UnitCost, item.UnitPrice, item.Status, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU))

	return nil
}

// Update updates the descriptive fields of an item. Quantity and status are
// never written here; only the movement transaction mutates them.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items SET
			sku = $2, barcode = $3, name = $4, description = $5,
			category_id = $6, supplier_id = $7, min_quantity = $8, max_quantity = $9,
			unit_cost = $10, unit_price = $11, updated_at = $12
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING quantity, status`

	item.UpdatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		item.ID, item.SKU, nullString(item.Barcode), item.Name, nullString(item.Description),
		item.CategoryID, item.SupplierID, item.MinQuantity, item.MaxQuantity,
		item.UnitCost, item.UnitPrice, item.UpdatedAt,
	).Scan(&item.Quantity, &item.Status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.NewNotFound("item", item.ID)
		}
		return fmt.Errorf("failed to update item: %w", err)
	}

	r.logger.DebugContext(ctx, "item updated",
		slog.String("item_id", item.ID.String()))

	return nil
}

// FindByID retrieves an item by ID
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT` + itemColumns + `
		FROM items
		WHERE id = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return item, nil
}

// FindBySKU retrieves an item by its unique SKU
func (r *itemRepository) FindBySKU(ctx context.Context, sku string) (*domain.Item, error) {
	query := `SELECT` + itemColumns + `
		FROM items
		WHERE sku = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, sku))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find item by sku: %w", err)
	}
	return item, nil
}

// FindAll retrieves items with filtering and pagination
func (r *itemRepository) FindAll(ctx context.Context, params ports.ItemListParams) ([]*domain.Item, int64, error) {
	qb := squirrel.Select(
		"id", "sku", "barcode", "name", "description",
		"category_id", "supplier_id", "quantity", "min_quantity", "max_quantity",
		"unit_cost", "unit_price", "status", "created_at", "updated_at",
	).From("items").
		Where("deleted_at IS NULL").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
			squirrel.ILike{"barcode": pattern},
		})
	}
	if params.CategoryID != nil {
		qb = qb.Where(squirrel.Eq{"category_id": *params.CategoryID})
	}
	if params.SupplierID != nil {
		qb = qb.Where(squirrel.Eq{"supplier_id": *params.SupplierID})
	}
	if params.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": params.Status})
	}
	if params.LowStock {
		qb = qb.Where("quantity <= min_quantity")
	}

	// Count before pagination
	countSQL, countArgs, err := qb.Prefix("SELECT COUNT(*) FROM (").Suffix(") AS c").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	qb = qb.OrderBy(itemOrderBy(params.SortBy, params.SortOrder))

	if params.PageSize > 0 {
		qb = qb.Limit(uint64(params.PageSize))
		if params.Page > 1 {
			qb = qb.Offset(uint64((params.Page - 1) * params.PageSize))
		}
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return items, totalCount, nil
}

// Delete performs a hard delete. Items with ledger history are protected by
// the RESTRICT foreign key on movements and surface as a conflict.
func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return &domain.ConflictError{Entity: "item", Reason: "item has ledger history; soft delete instead"}
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("item", id)
	}

	r.logger.InfoContext(ctx, "item deleted",
		slog.String("item_id", id.String()))

	return nil
}

// SoftDelete marks an item as deleted
func (r *itemRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("item", id)
	}

	r.logger.InfoContext(ctx, "item soft deleted",
		slog.String("item_id", id.String()))

	return nil
}

// Exists checks if an item exists
func (r *itemRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of items
func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func itemOrderBy(sortBy, sortOrder string) string {
	direction := "ASC"
	if sortOrder == "desc" {
		direction = "DESC"
	}

	switch sortBy {
	case "name":
		return fmt.Sprintf("name %s", direction)
	case "sku":
		return fmt.Sprintf("sku %s", direction)
	case "quantity":
		return fmt.Sprintf("quantity %s", direction)
	case "updated":
		return fmt.Sprintf("updated_at %s", direction)
	case "":
		return "created_at DESC"
	default:
		return fmt.Sprintf("created_at %s", direction)
	}
}

// scanItem scans one item row; the column order must match itemColumns.
func scanItem(row pgx.Row) (*domain.Item, error) {
	item := &domain.Item{}
	var barcode, description sql.NullString

	err := row.Scan(
		&item.ID, &item.SKU, &barcode, &item.Name, &description,
		&item.CategoryID, &item.SupplierID, &item.Quantity, &item.MinQuantity, &item.MaxQuantity,
		&item.UnitCost, &item.UnitPrice, &item.Status, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Barcode = barcode.String
	item.Description = description.String

	return item, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
