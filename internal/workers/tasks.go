// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// Task type names
const (
	TypeLowStockAlert   = "alerts:low_stock"
	TypeLedgerReconcile = "ledger:reconcile"
)

// LowStockPayload is the payload for a low stock alert task.
type LowStockPayload struct {
	ItemID      uuid.UUID `json:"item_id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	MinQuantity int       `json:"min_quantity"`
}

// ReconcilePayload is the payload for a ledger reconciliation task. A nil
// ItemID reconciles every item.
type ReconcilePayload struct {
	ItemID *uuid.UUID `json:"item_id,omitempty"`
}

// NewLowStockTask builds an asynq task from an item that crossed its
// minimum quantity threshold.
func NewLowStockTask(item *domain.Item) (*asynq.Task, error) {
	payload, err := json.Marshal(LowStockPayload{
		ItemID:      item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		Quantity:    item.Quantity,
		MinQuantity: item.MinQuantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, payload, asynq.MaxRetry(3)), nil
}

// NewReconcileTask builds an asynq task that replays the ledger against
// stored quantities.
func NewReconcileTask(itemID *uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(ReconcilePayload{ItemID: itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reconcile payload: %w", err)
	}
	return asynq.NewTask(TypeLedgerReconcile, payload, asynq.MaxRetry(1)), nil
}

// AsynqAlerter queues low stock notifications on the task queue. It
// implements ports.Alerter; callers treat enqueue failures as best-effort.
type AsynqAlerter struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewAsynqAlerter creates an alerter backed by an asynq client.
func NewAsynqAlerter(client *asynq.Client, logger *slog.Logger) *AsynqAlerter {
	return &AsynqAlerter{
		client: client,
		logger: logger.With(slog.String("component", "alerter")),
	}
}

// NotifyLowStock enqueues a low stock alert task for the item.
func (a *AsynqAlerter) NotifyLowStock(ctx context.Context, item *domain.Item) error {
	task, err := NewLowStockTask(item)
	if err != nil {
		return err
	}

	info, err := a.client.EnqueueContext(ctx, task, asynq.Queue("default"))
	if err != nil {
		return fmt.Errorf("failed to enqueue low stock alert: %w", err)
	}

	a.logger.InfoContext(ctx, "low stock alert queued",
		slog.String("task_id", info.ID),
		slog.String("item_id", item.ID.String()),
		slog.String("sku", item.SKU),
		slog.Int("quantity", item.Quantity))
	return nil
}
