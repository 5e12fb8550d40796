// internal/core/services/item_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
	"github.com/mmammidi/inventory-management-api/internal/core/services"
	"github.com/mmammidi/inventory-management-api/test/helpers"
	"github.com/mmammidi/inventory-management-api/test/mocks"
)

func TestItemService_CreateItem(t *testing.T) {
	tests := []struct {
		name          string
		item          *domain.Item
		saveErr       error
		setupMocks    func(*mocks.MockItemRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorCheck    func(t *testing.T, err error)
	}{
		{
			name: "successful_create",
			item: helpers.CreateTestItem(),
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().FindBySKU(gomock.Any(), "SKU-0001").Return(nil, nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "stats:*").Return(nil)
			},
		},
		{
			name: "validation_fails_for_missing_sku",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.SKU = ""
			}),
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorCheck: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "validation_fails_for_negative_quantity",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Quantity = -1
			}),
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorCheck: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "validation_fails_for_negative_unit_cost",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.UnitCost = decimal.NewFromFloat(-1.50)
			}),
			setupMocks:    func(*mocks.MockItemRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorCheck: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name: "duplicate_sku_conflicts",
			item: helpers.CreateTestItem(),
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					FindBySKU(gomock.Any(), "SKU-0001").
					Return(helpers.CreateTestItem(), nil)
			},
			expectedError: true,
			errorCheck: func(t *testing.T, err error) {
				assert.True(t, domain.IsConflict(err))
			},
		},
		{
			name:    "repository_save_error",
			item:    helpers.CreateTestItem(),
			saveErr: errors.New("connection lost"),
			setupMocks: func(repo *mocks.MockItemRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().FindBySKU(gomock.Any(), "SKU-0001").Return(nil, nil)
			},
			expectedError: true,
			errorCheck: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "failed to save item")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockItemRepository(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)
			tt.setupMocks(repo, cache)

			scope := newFakeTxScope()
			scope.saveErr = tt.saveErr

			service := services.NewItemService(scope, repo, cache, helpers.TestLogger())
			err := service.CreateItem(context.Background(), tt.item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorCheck != nil {
					tt.errorCheck(t, err)
				}
				// Nothing committed: no item row, no ledger entry.
				assert.Empty(t, scope.items)
				assert.Empty(t, scope.movements)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tt.item.ID)
			assert.Equal(t, domain.StatusActive, tt.item.Status)

			// The item and its opening ADJUSTMENT committed together.
			require.Contains(t, scope.items, tt.item.ID)
			require.Len(t, scope.movements, 1)
			opening := scope.movements[0]
			assert.Equal(t, domain.MovementAdjustment, opening.Type)
			assert.Equal(t, tt.item.Quantity, opening.Quantity)
			assert.Equal(t, tt.item.ID, opening.ItemID)
		})
	}
}

func TestItemService_CreateItem_DerivesStatusFromQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	repo.EXPECT().FindBySKU(gomock.Any(), gomock.Any()).Return(nil, nil)

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 0
		i.Status = domain.StatusActive // caller-provided status is overwritten
	})

	scope := newFakeTxScope()
	service := services.NewItemService(scope, repo, nil, helpers.TestLogger())
	require.NoError(t, service.CreateItem(context.Background(), item))
	assert.Equal(t, domain.StatusOutOfStock, item.Status)

	// An empty opening balance needs no ledger entry: replaying nothing
	// already yields zero.
	assert.Empty(t, scope.movements)
}

func TestItemService_CreateItem_LedgerReplaysToStoredQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	repo.EXPECT().FindBySKU(gomock.Any(), gomock.Any()).Return(nil, nil)

	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 100 })
	scope := newFakeTxScope()

	itemService := services.NewItemService(scope, repo, nil, helpers.TestLogger())
	require.NoError(t, itemService.CreateItem(context.Background(), item))

	movementService := services.NewMovementService(scope, nil, nil, nil, nil, helpers.TestLogger())
	_, err := movementService.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementOut,
		Quantity: 30,
	})
	require.NoError(t, err)

	// Folding the full ledger from zero must land on the stored quantity.
	replayed := 0
	for i := range scope.movements {
		replayed, err = domain.Apply(replayed, &scope.movements[i])
		require.NoError(t, err)
	}
	assert.Equal(t, scope.items[item.ID].Quantity, replayed)
	assert.Equal(t, 70, replayed)
}

func TestItemService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	service := services.NewItemService(nil, repo, nil, helpers.TestLogger())

	t.Run("found", func(t *testing.T) {
		item := helpers.CreateTestItem()
		repo.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)

		got, err := service.GetByID(context.Background(), item.ID)
		require.NoError(t, err)
		helpers.CompareItems(t, item, got)
	})

	t.Run("not_found", func(t *testing.T) {
		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		_, err := service.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestItemService_GetBySKU(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	service := services.NewItemService(nil, repo, nil, helpers.TestLogger())

	t.Run("empty_sku_rejected", func(t *testing.T) {
		_, err := service.GetBySKU(context.Background(), "")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("not_found", func(t *testing.T) {
		repo.EXPECT().FindBySKU(gomock.Any(), "SKU-MISSING").Return(nil, nil)

		_, err := service.GetBySKU(context.Background(), "SKU-MISSING")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	t.Run("preserves_quantity_and_status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		current := helpers.CreateTestItem(func(i *domain.Item) {
			i.Quantity = 77
			i.Status = domain.StatusActive
		})
		update := helpers.CreateTestItem(func(i *domain.Item) {
			i.SKU = current.SKU
			i.Name = "Renamed Item"
			i.Quantity = 5 // must be ignored
		})

		repo.EXPECT().FindByID(gomock.Any(), current.ID).Return(current, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		cache.EXPECT().DeletePattern(gomock.Any(), "stats:*").Return(nil)

		service := services.NewItemService(nil, repo, cache, helpers.TestLogger())
		updated, err := service.UpdateItem(context.Background(), current.ID, update)

		require.NoError(t, err)
		assert.Equal(t, "Renamed Item", updated.Name)
		assert.Equal(t, 77, updated.Quantity)
		assert.Equal(t, current.Status, updated.Status)
	})

	t.Run("sku_change_to_taken_sku_conflicts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)

		current := helpers.CreateTestItem()
		other := helpers.CreateTestItem(func(i *domain.Item) {
			i.ID = uuid.New()
			i.SKU = "SKU-TAKEN"
		})
		update := helpers.CreateTestItem(func(i *domain.Item) {
			i.SKU = "SKU-TAKEN"
		})

		repo.EXPECT().FindByID(gomock.Any(), current.ID).Return(current, nil)
		repo.EXPECT().FindBySKU(gomock.Any(), "SKU-TAKEN").Return(other, nil)

		service := services.NewItemService(nil, repo, nil, helpers.TestLogger())
		_, err := service.UpdateItem(context.Background(), current.ID, update)

		require.Error(t, err)
		assert.True(t, domain.IsConflict(err))
	})

	t.Run("missing_item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)

		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		service := services.NewItemService(nil, repo, nil, helpers.TestLogger())
		_, err := service.UpdateItem(context.Background(), id, helpers.CreateTestItem())

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	t.Run("soft_delete_by_default", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		id := uuid.New()
		repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
		repo.EXPECT().SoftDelete(gomock.Any(), id).Return(nil)
		cache.EXPECT().DeletePattern(gomock.Any(), "stats:*").Return(nil)

		service := services.NewItemService(nil, repo, cache, helpers.TestLogger())
		require.NoError(t, service.DeleteItem(context.Background(), id, false))
	})

	t.Run("permanent_delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		id := uuid.New()
		repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
		cache.EXPECT().DeletePattern(gomock.Any(), "stats:*").Return(nil)

		service := services.NewItemService(nil, repo, cache, helpers.TestLogger())
		require.NoError(t, service.DeleteItem(context.Background(), id, true))
	})

	t.Run("missing_item", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockItemRepository(ctrl)

		id := uuid.New()
		repo.EXPECT().Exists(gomock.Any(), id).Return(false, nil)

		service := services.NewItemService(nil, repo, nil, helpers.TestLogger())
		err := service.DeleteItem(context.Background(), id, false)

		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestItemService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockItemRepository(ctrl)
	service := services.NewItemService(nil, repo, nil, helpers.TestLogger())

	t.Run("normalizes_pagination", func(t *testing.T) {
		repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params ports.ItemListParams) ([]*domain.Item, int64, error) {
				assert.Equal(t, 1, params.Page)
				assert.Equal(t, 50, params.PageSize)
				return helpers.CreateTestItems(3), 3, nil
			})

		result, err := service.List(context.Background(), ports.ItemListParams{Page: 0, PageSize: -5})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 50, result.PageSize)
		assert.Equal(t, int64(3), result.TotalCount)
		assert.Equal(t, 1, result.TotalPages)
		assert.Len(t, result.Items, 3)
	})

	t.Run("computes_total_pages", func(t *testing.T) {
		repo.EXPECT().
			FindAll(gomock.Any(), gomock.Any()).
			Return(helpers.CreateTestItems(10), int64(101), nil)

		result, err := service.List(context.Background(), ports.ItemListParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, 11, result.TotalPages)
	})
}
