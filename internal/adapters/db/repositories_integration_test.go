// internal/adapters/db/repositories_integration_test.go
package db_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmammidi/inventory-management-api/internal/adapters/db"
	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
	"github.com/mmammidi/inventory-management-api/test/helpers"
)

func TestItemRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	repo := db.NewItemRepository(testDB.Database, helpers.TestLogger())
	ctx := context.Background()

	t.Run("save_and_find", func(t *testing.T) {
		item := helpers.CreateTestItem(func(i *domain.Item) {
			i.SKU = "INT-0001"
		})
		require.NoError(t, repo.Save(ctx, item))

		byID, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, byID)
		assert.Equal(t, item.SKU, byID.SKU)
		assert.Equal(t, item.Quantity, byID.Quantity)
		assert.True(t, item.UnitCost.Equal(byID.UnitCost))

		bySKU, err := repo.FindBySKU(ctx, "INT-0001")
		require.NoError(t, err)
		require.NotNil(t, bySKU)
		assert.Equal(t, item.ID, bySKU.ID)
	})

	t.Run("missing_row_returns_nil", func(t *testing.T) {
		found, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("duplicate_sku_rejected", func(t *testing.T) {
		first := helpers.CreateTestItem(func(i *domain.Item) { i.SKU = "INT-DUP" })
		require.NoError(t, repo.Save(ctx, first))

		second := helpers.CreateTestItem(func(i *domain.Item) { i.SKU = "INT-DUP" })
		err := repo.Save(ctx, second)
		require.Error(t, err)
	})

	t.Run("update_never_writes_quantity", func(t *testing.T) {
		item := helpers.CreateTestItem(func(i *domain.Item) {
			i.SKU = "INT-0002"
			i.Quantity = 40
		})
		require.NoError(t, repo.Save(ctx, item))

		item.Name = "Renamed Bolt"
		item.Quantity = 9999
		require.NoError(t, repo.Update(ctx, item))

		reloaded, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, "Renamed Bolt", reloaded.Name)
		assert.Equal(t, 40, reloaded.Quantity)
	})

	t.Run("find_all_filters", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			item := helpers.CreateTestItem(func(it *domain.Item) {
				it.SKU = fmt.Sprintf("INT-FLT-%04d", i)
				it.Name = fmt.Sprintf("Filtered Widget %d", i)
				it.Quantity = i // i < MinQuantity(10), all low stock; first one empty
				if i == 0 {
					it.Status = domain.StatusOutOfStock
				}
			})
			require.NoError(t, repo.Save(ctx, item))
		}

		items, total, err := repo.FindAll(ctx, ports.ItemListParams{
			Search: "Filtered Widget", Page: 1, PageSize: 3,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, items, 3)

		items, total, err = repo.FindAll(ctx, ports.ItemListParams{
			Search: "Filtered Widget", Status: string(domain.StatusOutOfStock),
			Page: 1, PageSize: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, "INT-FLT-0000", items[0].SKU)

		_, total, err = repo.FindAll(ctx, ports.ItemListParams{
			Search: "Filtered Widget", LowStock: true, Page: 1, PageSize: 50,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
	})

	t.Run("soft_delete_hides_row", func(t *testing.T) {
		item := helpers.CreateTestItem(func(i *domain.Item) { i.SKU = "INT-0003" })
		require.NoError(t, repo.Save(ctx, item))
		require.NoError(t, repo.SoftDelete(ctx, item.ID))

		found, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Nil(t, found)

		exists, err := repo.Exists(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("hard_delete_with_history_conflicts", func(t *testing.T) {
		item := helpers.CreateTestItem(func(i *domain.Item) { i.SKU = "INT-0004" })
		require.NoError(t, repo.Save(ctx, item))

		_, err := testDB.PgxPool.Exec(ctx,
			`INSERT INTO movements (item_id, type, quantity) VALUES ($1, 'IN', 5)`,
			item.ID)
		require.NoError(t, err)

		// The ledger row pins the item: hard delete conflicts, the history
		// stays, and a soft delete is still available.
		err = repo.Delete(ctx, item.ID)
		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))

		var count int
		require.NoError(t, testDB.PgxPool.QueryRow(ctx,
			`SELECT COUNT(*) FROM movements WHERE item_id = $1`, item.ID).Scan(&count))
		assert.Equal(t, 1, count)

		require.NoError(t, repo.SoftDelete(ctx, item.ID))
	})
}

func TestMovementLedger_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	testDB := helpers.SetupTestDB(t)
	logger := helpers.TestLogger()
	items := db.NewItemRepository(testDB.Database, logger)
	movements := db.NewMovementRepository(testDB.Database, logger)
	scope := db.NewTransactionScope(testDB.Database, logger)
	ctx := context.Background()

	record := func(t *testing.T, itemID uuid.UUID, mt domain.MovementType, qty int) {
		t.Helper()
		err := scope.Execute(ctx, func(repos ports.TxRepositories) error {
			current, err := repos.Items().FindByIDForUpdate(ctx, itemID)
			if err != nil {
				return err
			}
			require.NotNil(t, current)

			movement := &domain.Movement{
				ID: uuid.New(), ItemID: itemID, Type: mt, Quantity: qty,
				CreatedAt: time.Now().UTC(),
			}
			next, err := domain.Apply(current.Quantity, movement)
			if err != nil {
				return err
			}
			if err := repos.Movements().Insert(ctx, movement); err != nil {
				return err
			}
			_, err = repos.Items().SetQuantityAndStatus(ctx, itemID, next, domain.StatusFor(next))
			return err
		})
		require.NoError(t, err)
	}

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "INT-LED-0001"
		i.Quantity = 0
		i.Status = domain.StatusOutOfStock
	})
	require.NoError(t, items.Save(ctx, item))

	record(t, item.ID, domain.MovementAdjustment, 100)
	record(t, item.ID, domain.MovementOut, 30)
	record(t, item.ID, domain.MovementIn, 12)
	record(t, item.ID, domain.MovementReturn, 3)

	t.Run("quantity_matches_replay", func(t *testing.T) {
		reloaded, err := items.FindByID(ctx, item.ID)
		require.NoError(t, err)
		require.NotNil(t, reloaded)
		assert.Equal(t, 85, reloaded.Quantity)

		replayed, err := movements.ReplayQuantity(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, reloaded.Quantity, replayed)
	})

	t.Run("find_by_item_pages", func(t *testing.T) {
		page, total, err := movements.FindByItem(ctx, item.ID, ports.Page{Number: 1, Size: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, page, 3)
	})

	t.Run("aggregate_by_type", func(t *testing.T) {
		aggs, err := movements.Aggregate(ctx, &item.ID)
		require.NoError(t, err)

		byType := make(map[domain.MovementType]domain.MovementAggregate, len(aggs))
		for _, a := range aggs {
			byType[a.Type] = a
		}
		assert.Equal(t, int64(30), byType[domain.MovementOut].TotalQuantity)
		assert.Equal(t, int64(12), byType[domain.MovementIn].TotalQuantity)
		assert.Equal(t, int64(1), byType[domain.MovementReturn].Count)
	})

	t.Run("rollback_leaves_no_trace", func(t *testing.T) {
		before, err := movements.ReplayQuantity(ctx, item.ID)
		require.NoError(t, err)

		boom := errors.New("boom")
		err = scope.Execute(ctx, func(repos ports.TxRepositories) error {
			movement := &domain.Movement{
				ID: uuid.New(), ItemID: item.ID, Type: domain.MovementOut, Quantity: 1,
				CreatedAt: time.Now().UTC(),
			}
			if err := repos.Movements().Insert(ctx, movement); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		after, err := movements.ReplayQuantity(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, before, after)

		_, total, err := movements.FindByItem(ctx, item.ID, ports.Page{Number: 1, Size: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("filters_by_type_and_range", func(t *testing.T) {
		outs, total, err := movements.FindByType(ctx, domain.MovementOut, ports.Page{Number: 1, Size: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, outs, 1)
		assert.Equal(t, 30, outs[0].Quantity)

		from := time.Now().Add(-time.Hour)
		to := time.Now().Add(time.Hour)
		ranged, total, err := movements.FindByDateRange(ctx, from, to, ports.Page{Number: 1, Size: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, ranged, 4)
	})
}
