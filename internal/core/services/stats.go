// internal/core/services/stats.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// PgxPool is the slice of pgxpool.Pool the stats queries need.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const statsCacheTTL = 5 * time.Minute

// StatsService computes inventory dashboard statistics. Results are cached
// under stats:* keys; every write path invalidates that pattern.
type StatsService struct {
	db        PgxPool
	movements ports.MovementRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(db PgxPool, movements ports.MovementRepository, cache ports.CacheRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		db:        db,
		movements: movements,
		cache:     cache,
		logger:    logger.With(slog.String("service", "stats")),
	}
}

// InventoryStats is the dashboard snapshot.
type InventoryStats struct {
	TotalItems      int64                      `json:"total_items"`
	TotalQuantity   int64                      `json:"total_quantity"`
	TotalStockValue decimal.Decimal            `json:"total_stock_value"`
	LowStockCount   int64                      `json:"low_stock_count"`
	OutOfStockCount int64                      `json:"out_of_stock_count"`
	ByCategory      []CategoryStats            `json:"by_category"`
	MovementTotals  []domain.MovementAggregate `json:"movement_totals"`
	RecentMovements []domain.Movement          `json:"recent_movements"`
	Timestamp       time.Time                  `json:"timestamp"`
}

// CategoryStats is the per-category slice of the snapshot.
type CategoryStats struct {
	CategoryID   *string         `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ItemCount    int64           `json:"item_count"`
	Quantity     int64           `json:"quantity"`
	StockValue   decimal.Decimal `json:"stock_value"`
}

// GetInventoryStats returns the dashboard snapshot, served from cache when
// fresh.
func (s *StatsService) GetInventoryStats(ctx context.Context) (*InventoryStats, error) {
	var stats InventoryStats
	err := s.cache.GetOrSet(ctx, "stats:inventory", &stats, func() (interface{}, error) {
		return s.loadInventoryStats(ctx)
	}, statsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory stats: %w", err)
	}
	return &stats, nil
}

func (s *StatsService) loadInventoryStats(ctx context.Context) (*InventoryStats, error) {
	stats := &InventoryStats{Timestamp: time.Now().UTC()}

	summaryQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(quantity), 0),
			COALESCE(SUM(quantity * unit_cost), 0),
			COUNT(*) FILTER (WHERE quantity <= min_quantity),
			COUNT(*) FILTER (WHERE status = 'OUT_OF_STOCK')
		FROM items
		WHERE deleted_at IS NULL
	`
	err := s.db.QueryRow(ctx, summaryQuery).Scan(
		&stats.TotalItems,
		&stats.TotalQuantity,
		&stats.TotalStockValue,
		&stats.LowStockCount,
		&stats.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("summary query: %w", err)
	}

	categoryQuery := `
		SELECT
			c.id::text,
			COALESCE(c.name, 'uncategorized'),
			COUNT(i.id),
			COALESCE(SUM(i.quantity), 0),
			COALESCE(SUM(i.quantity * i.unit_cost), 0)
		FROM items i
		LEFT JOIN categories c ON c.id = i.category_id
		WHERE i.deleted_at IS NULL
		GROUP BY c.id, c.name
		ORDER BY COUNT(i.id) DESC
		LIMIT 20
	`
	rows, err := s.db.Query(ctx, categoryQuery)
	if err != nil {
		return nil, fmt.Errorf("category query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStats
		if err := rows.Scan(&cs.CategoryID, &cs.CategoryName, &cs.ItemCount, &cs.Quantity, &cs.StockValue); err != nil {
			return nil, fmt.Errorf("category scan: %w", err)
		}
		stats.ByCategory = append(stats.ByCategory, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category rows: %w", err)
	}

	totals, err := s.movements.Aggregate(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("movement totals: %w", err)
	}
	stats.MovementTotals = totals

	recent, err := s.movements.Recent(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	stats.RecentMovements = recent

	return stats, nil
}

// LowStockItems lists active items at or below their minimum quantity,
// ordered by how far below they are.
func (s *StatsService) LowStockItems(ctx context.Context, limit int) ([]domain.Item, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var items []domain.Item
	cacheKey := fmt.Sprintf("stats:low_stock:%d", limit)
	err := s.cache.GetOrSet(ctx, cacheKey, &items, func() (interface{}, error) {
		return s.loadLowStockItems(ctx, limit)
	}, statsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock items: %w", err)
	}
	return items, nil
}

func (s *StatsService) loadLowStockItems(ctx context.Context, limit int) ([]domain.Item, error) {
	query := `
		SELECT id, sku, name, quantity, min_quantity, status
		FROM items
		WHERE deleted_at IS NULL AND quantity <= min_quantity
		ORDER BY quantity - min_quantity ASC, name ASC
		LIMIT $1
	`
	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Item, 0, limit)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.SKU, &item.Name, &item.Quantity, &item.MinQuantity, &item.Status); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
