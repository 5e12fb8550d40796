// internal/adapters/db/movement_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

const movementColumns = `
	id, item_id, type, quantity, reason, reference, notes, user_id, created_at`

// movementRepository implements the read side of ports.MovementRepository.
// Writes happen only through the transaction scope.
type movementRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMovementRepository creates a new movement repository
func NewMovementRepository(db *Database, logger *slog.Logger) ports.MovementRepository {
	return &movementRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "movement")),
	}
}

// FindByID retrieves a single ledger entry
func (r *movementRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	query := `SELECT` + movementColumns + `
		FROM movements
		WHERE id = $1`

	movement, err := scanMovement(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find movement: %w", err)
	}
	return movement, nil
}

// FindByItem retrieves the ledger for one item, newest first
func (r *movementRepository) FindByItem(ctx context.Context, itemID uuid.UUID, page ports.Page) ([]domain.Movement, int64, error) {
	return r.findAll(ctx, ports.MovementListParams{ItemID: &itemID, Page: page})
}

// FindByType retrieves ledger entries of one movement type
func (r *movementRepository) FindByType(ctx context.Context, movementType domain.MovementType, page ports.Page) ([]domain.Movement, int64, error) {
	return r.findAll(ctx, ports.MovementListParams{Type: movementType, Page: page})
}

// FindByDateRange retrieves ledger entries recorded in [from, to]
func (r *movementRepository) FindByDateRange(ctx context.Context, from, to time.Time, page ports.Page) ([]domain.Movement, int64, error) {
	return r.findAll(ctx, ports.MovementListParams{From: &from, To: &to, Page: page})
}

// FindAll retrieves ledger entries matching the combined filters
func (r *movementRepository) FindAll(ctx context.Context, params ports.MovementListParams) ([]domain.Movement, int64, error) {
	return r.findAll(ctx, params)
}

func (r *movementRepository) findAll(ctx context.Context, params ports.MovementListParams) ([]domain.Movement, int64, error) {
	qb := squirrel.Select(
		"id", "item_id", "type", "quantity", "reason", "reference", "notes", "user_id", "created_at",
	).From("movements").
		PlaceholderFormat(squirrel.Dollar)

	if params.ItemID != nil {
		qb = qb.Where(squirrel.Eq{"item_id": *params.ItemID})
	}
	if params.Type != "" {
		qb = qb.Where(squirrel.Eq{"type": params.Type})
	}
	if params.UserID != nil {
		qb = qb.Where(squirrel.Eq{"user_id": *params.UserID})
	}
	if params.From != nil {
		qb = qb.Where(squirrel.GtOrEq{"created_at": *params.From})
	}
	if params.To != nil {
		qb = qb.Where(squirrel.LtOrEq{"created_at": *params.To})
	}

	countSQL, countArgs, err := qb.Prefix("SELECT COUNT(*) FROM (").Suffix(") AS c").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	qb = qb.OrderBy("created_at DESC, id DESC").
		Limit(uint64(params.Page.Limit())).
		Offset(uint64(params.Page.Offset()))

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query movements: %w", err)
	}
	defer rows.Close()

	movements, err := collectMovements(rows)
	if err != nil {
		return nil, 0, err
	}

	return movements, totalCount, nil
}

// Recent returns the n newest ledger entries across all items
func (r *movementRepository) Recent(ctx context.Context, n int) ([]domain.Movement, error) {
	if n <= 0 {
		n = 20
	}

	query := `SELECT` + movementColumns + `
		FROM movements
		ORDER BY created_at DESC, id DESC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// Aggregate sums quantities grouped by movement type
func (r *movementRepository) Aggregate(ctx context.Context, itemID *uuid.UUID) ([]domain.MovementAggregate, error) {
	qb := squirrel.Select("type", "COALESCE(SUM(quantity), 0)", "COUNT(*)").
		From("movements").
		GroupBy("type").
		OrderBy("type").
		PlaceholderFormat(squirrel.Dollar)

	if itemID != nil {
		qb = qb.Where(squirrel.Eq{"item_id": *itemID})
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build aggregate query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movement aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := make([]domain.MovementAggregate, 0, 5)
	for rows.Next() {
		var agg domain.MovementAggregate
		if err := rows.Scan(&agg.Type, &agg.TotalQuantity, &agg.Count); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		aggregates = append(aggregates, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return aggregates, nil
}

// ReplayQuantity folds the item's full ledger in commit order and returns
// the resulting quantity. id breaks ties between entries sharing a
// created_at timestamp.
func (r *movementRepository) ReplayQuantity(ctx context.Context, itemID uuid.UUID) (int, error) {
	query := `
		SELECT type, quantity
		FROM movements
		WHERE item_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return 0, fmt.Errorf("failed to query ledger for replay: %w", err)
	}
	defer rows.Close()

	quantity := 0
	for rows.Next() {
		m := domain.Movement{ItemID: itemID}
		if err := rows.Scan(&m.Type, &m.Quantity); err != nil {
			return 0, fmt.Errorf("failed to scan movement: %w", err)
		}
		next, err := domain.Apply(quantity, &m)
		if err != nil {
			return 0, fmt.Errorf("ledger replay failed for item %s: %w", itemID, err)
		}
		quantity = next
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return quantity, nil
}

func collectMovements(rows pgx.Rows) ([]domain.Movement, error) {
	var movements []domain.Movement
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, *movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return movements, nil
}

// scanMovement scans one ledger row; the column order must match
// movementColumns.
func scanMovement(row pgx.Row) (*domain.Movement, error) {
	movement := &domain.Movement{}
	var reason, reference, notes sql.NullString

	err := row.Scan(
		&movement.ID, &movement.ItemID, &movement.Type, &movement.Quantity,
		&reason, &reference, &notes, &movement.UserID, &movement.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	movement.Reason = reason.String
	movement.Reference = reference.String
	movement.Notes = notes.String

	return movement, nil
}
