// internal/workers/reconcile_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mmammidi/inventory-management-api/internal/adapters/db"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// ReconcileProcessor replays the movement ledger and compares the result
// against the stored item quantity. Replaying every committed movement in
// commit order must reproduce the stored quantity exactly; a mismatch means
// a write bypassed the transaction scope and is reported, never auto-fixed.
type ReconcileProcessor struct {
	db        *db.Database
	items     ports.ItemRepository
	movements ports.MovementRepository
	logger    *slog.Logger
}

// NewReconcileProcessor creates a new reconcile processor
func NewReconcileProcessor(database *db.Database, items ports.ItemRepository, movements ports.MovementRepository, logger *slog.Logger) *ReconcileProcessor {
	return &ReconcileProcessor{
		db:        database,
		items:     items,
		movements: movements,
		logger:    logger.With(slog.String("processor", "reconcile")),
	}
}

// HandleReconcile processes a ledger reconciliation task
func (p *ReconcileProcessor) HandleReconcile(ctx context.Context, t *asynq.Task) error {
	var payload ReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	ids, err := p.itemIDs(ctx, payload.ItemID)
	if err != nil {
		return fmt.Errorf("failed to list items for reconciliation: %w", err)
	}

	var mismatches int
	for _, id := range ids {
		ok, err := p.reconcileItem(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			mismatches++
		}
	}

	p.logger.InfoContext(ctx, "ledger reconciliation finished",
		slog.Int("items_checked", len(ids)),
		slog.Int("mismatches", mismatches))

	if mismatches > 0 {
		return fmt.Errorf("ledger reconciliation found %d mismatched items", mismatches)
	}
	return nil
}

func (p *ReconcileProcessor) itemIDs(ctx context.Context, only *uuid.UUID) ([]uuid.UUID, error) {
	if only != nil {
		return []uuid.UUID{*only}, nil
	}

	rows, err := p.db.Query(ctx, `SELECT id FROM items WHERE deleted_at IS NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *ReconcileProcessor) reconcileItem(ctx context.Context, id uuid.UUID) (bool, error) {
	item, err := p.items.FindByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	if item == nil {
		p.logger.WarnContext(ctx, "item vanished during reconciliation",
			slog.String("item_id", id.String()))
		return true, nil
	}

	replayed, err := p.movements.ReplayQuantity(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to replay ledger for item %s: %w", id, err)
	}

	if replayed != item.Quantity {
		p.logger.ErrorContext(ctx, "ledger replay mismatch",
			slog.String("item_id", id.String()),
			slog.String("sku", item.SKU),
			slog.Int("stored_quantity", item.Quantity),
			slog.Int("replayed_quantity", replayed))
		return false, nil
	}

	return true, nil
}
