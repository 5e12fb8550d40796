// internal/core/services/movement.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

const (
	// txMaxAttempts bounds retries on serialization failures and deadlocks.
	txMaxAttempts = 3
	txRetryDelay  = 25 * time.Millisecond
)

// MovementService appends stock movements to the ledger and keeps the
// item's quantity and status in sync, in one transaction per movement.
type MovementService struct {
	scope     ports.TransactionScope
	movements ports.MovementRepository
	items     ports.ItemRepository
	cache     ports.CacheRepository
	alerter   ports.Alerter
	logger    *slog.Logger
}

var _ ports.MovementService = (*MovementService)(nil)

// NewMovementService creates a new movement service. alerter may be nil when
// asynchronous alerts are disabled.
func NewMovementService(
	scope ports.TransactionScope,
	movements ports.MovementRepository,
	items ports.ItemRepository,
	cache ports.CacheRepository,
	alerter ports.Alerter,
	logger *slog.Logger,
) *MovementService {
	return &MovementService{
		scope:     scope,
		movements: movements,
		items:     items,
		cache:     cache,
		alerter:   alerter,
		logger:    logger.With(slog.String("service", "movement")),
	}
}

// RecordMovement validates the request, locks the item row, projects the new
// quantity and writes the ledger entry and the item update atomically. The
// ledger never records a movement that was not applied, and no movement is
// applied without its ledger entry.
func (s *MovementService) RecordMovement(ctx context.Context, params ports.RecordMovementParams) (*ports.MovementResult, error) {
	movement := &domain.Movement{
		ItemID:    params.ItemID,
		Type:      params.Type,
		Quantity:  params.Quantity,
		Reason:    params.Reason,
		Reference: params.Reference,
		Notes:     params.Notes,
		UserID:    params.UserID,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}
	movement.PrepareForStorage()

	var result *ports.MovementResult
	var lowStockItem *domain.Item

	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := s.scope.Execute(ctx, func(repos ports.TxRepositories) error {
			item, err := repos.Items().FindByIDForUpdate(ctx, params.ItemID)
			if err != nil {
				return fmt.Errorf("failed to lock item: %w", err)
			}
			if item == nil {
				return domain.NewNotFound("item", params.ItemID)
			}

			newQuantity, err := domain.Apply(item.Quantity, movement)
			if err != nil {
				return err
			}

			if err := repos.Movements().Insert(ctx, movement); err != nil {
				return fmt.Errorf("failed to insert movement: %w", err)
			}

			updated, err := repos.Items().SetQuantityAndStatus(ctx, item.ID, newQuantity, domain.StatusFor(newQuantity))
			if err != nil {
				return fmt.Errorf("failed to update item quantity: %w", err)
			}

			result = &ports.MovementResult{
				Movement:         movement,
				PreviousQuantity: item.Quantity,
				NewQuantity:      newQuantity,
				Status:           updated.Status,
			}
			if updated.IsLowStock() {
				lowStockItem = updated
			} else {
				lowStockItem = nil
			}
			return nil
		})
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err

		if !isRetryableTxError(err) {
			if isBusinessError(err) {
				return nil, err
			}
			return nil, &domain.StorageError{Op: "record_movement", Err: err}
		}

		s.logger.WarnContext(ctx, "retrying movement transaction",
			slog.Int("attempt", attempt),
			slog.String("item_id", params.ItemID.String()),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(txRetryDelay * time.Duration(attempt)):
		}
	}
	if lastErr != nil {
		return nil, &domain.StorageError{Op: "record_movement", Err: lastErr}
	}

	s.logger.InfoContext(ctx, "recorded movement",
		slog.String("movement_id", movement.ID.String()),
		slog.String("item_id", params.ItemID.String()),
		slog.String("type", string(movement.Type)),
		slog.Int("quantity", movement.Quantity),
		slog.Int("new_quantity", result.NewQuantity))

	s.invalidateStats(ctx)

	// Alerts ride on the committed state; failures are logged, never returned.
	if lowStockItem != nil && s.alerter != nil {
		if err := s.alerter.NotifyLowStock(ctx, lowStockItem); err != nil {
			s.logger.WarnContext(ctx, "failed to enqueue low stock alert",
				slog.String("item_id", lowStockItem.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	return result, nil
}

// AdjustQuantity records an ADJUSTMENT movement that sets the absolute
// quantity, for cycle counts and corrections.
func (s *MovementService) AdjustQuantity(ctx context.Context, itemID uuid.UUID, quantity int, reason string, userID *uuid.UUID) (*ports.MovementResult, error) {
	return s.RecordMovement(ctx, ports.RecordMovementParams{
		ItemID:   itemID,
		Type:     domain.MovementAdjustment,
		Quantity: quantity,
		Reason:   reason,
		UserID:   userID,
	})
}

// GetByID retrieves a single ledger entry.
func (s *MovementService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	movement, err := s.movements.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get movement: %w", err)
	}
	if movement == nil {
		return nil, domain.NewNotFound("movement", id)
	}
	return movement, nil
}

// ListByItem retrieves the ledger for one item, newest first.
func (s *MovementService) ListByItem(ctx context.Context, itemID uuid.UUID, page ports.Page) (*ports.MovementListResult, error) {
	exists, err := s.items.Exists(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check item existence: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFound("item", itemID)
	}

	movements, total, err := s.movements.FindByItem(ctx, itemID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return paginateMovements(movements, total, page), nil
}

// List retrieves ledger entries matching the combined filters.
func (s *MovementService) List(ctx context.Context, params ports.MovementListParams) (*ports.MovementListResult, error) {
	if params.Type != "" {
		if _, err := domain.ParseMovementType(string(params.Type)); err != nil {
			return nil, err
		}
	}

	movements, total, err := s.movements.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return paginateMovements(movements, total, params.Page), nil
}

// ListByDateRange retrieves ledger entries recorded in [from, to].
func (s *MovementService) ListByDateRange(ctx context.Context, from, to time.Time, page ports.Page) (*ports.MovementListResult, error) {
	if to.Before(from) {
		return nil, &domain.ValidationError{Field: "to", Reason: "must not be before from"}
	}

	movements, total, err := s.movements.FindByDateRange(ctx, from, to, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements by date range: %w", err)
	}
	return paginateMovements(movements, total, page), nil
}

// Aggregate sums committed movements grouped by type, optionally for a
// single item.
func (s *MovementService) Aggregate(ctx context.Context, itemID *uuid.UUID) ([]domain.MovementAggregate, error) {
	if itemID != nil {
		exists, err := s.items.Exists(ctx, *itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check item existence: %w", err)
		}
		if !exists {
			return nil, domain.NewNotFound("item", *itemID)
		}
	}

	aggregates, err := s.movements.Aggregate(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate movements: %w", err)
	}
	return aggregates, nil
}

func (s *MovementService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "stats:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate stats cache",
			slog.String("error", err.Error()))
	}
}

func paginateMovements(movements []domain.Movement, total int64, page ports.Page) *ports.MovementListResult {
	limit := page.Limit()
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}
	number := page.Number
	if number < 1 {
		number = 1
	}
	return &ports.MovementListResult{
		Movements:  movements,
		Page:       number,
		PageSize:   limit,
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// isBusinessError reports whether err carries a typed business-rule failure
// that must reach the caller as is. Everything else that aborts the
// transaction is an infrastructure failure and surfaces as StorageError.
func isBusinessError(err error) bool {
	return domain.IsNotFound(err) ||
		domain.IsValidation(err) ||
		domain.IsInsufficientStock(err) ||
		domain.IsConflict(err)
}

// isRetryableTxError reports whether the transaction failed with a
// serialization failure (40001) or deadlock (40P01) and can be retried.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
