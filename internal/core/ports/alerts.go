// internal/core/ports/alerts.go
package ports

import (
	"context"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

// Alerter publishes stock alerts for asynchronous delivery. Implementations
// must be best-effort: a failed publish never fails the movement that
// triggered it.
type Alerter interface {
	NotifyLowStock(ctx context.Context, item *domain.Item) error
}
