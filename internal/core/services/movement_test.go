// internal/core/services/movement_test.go
package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
	"github.com/mmammidi/inventory-management-api/internal/core/services"
	"github.com/mmammidi/inventory-management-api/test/helpers"
	"github.com/mmammidi/inventory-management-api/test/mocks"
)

// fakeTxScope is an in-memory ports.TransactionScope. Each Execute stages a
// copy of the state and commits it only when fn returns nil, matching the
// rollback semantics of the real scope.
type fakeTxScope struct {
	items     map[uuid.UUID]*domain.Item
	movements []domain.Movement

	// execErrs are returned by successive Execute calls before fn runs,
	// simulating transaction-level failures.
	execErrs []error
	// insertErr fails the ledger insert inside an otherwise healthy
	// transaction.
	insertErr error
	// saveErr fails the item insert inside the transaction.
	saveErr error
	calls   int
}

func newFakeTxScope(items ...*domain.Item) *fakeTxScope {
	s := &fakeTxScope{items: make(map[uuid.UUID]*domain.Item)}
	for _, item := range items {
		copied := *item
		s.items[item.ID] = &copied
	}
	return s
}

func (s *fakeTxScope) Execute(_ context.Context, fn func(ports.TxRepositories) error) error {
	s.calls++
	if len(s.execErrs) > 0 {
		err := s.execErrs[0]
		s.execErrs = s.execErrs[1:]
		return err
	}

	staged := &fakeTxScope{
		items:     make(map[uuid.UUID]*domain.Item, len(s.items)),
		movements: append([]domain.Movement(nil), s.movements...),
		insertErr: s.insertErr,
		saveErr:   s.saveErr,
	}
	for id, item := range s.items {
		copied := *item
		staged.items[id] = &copied
	}

	if err := fn(&fakeTxRepos{scope: staged}); err != nil {
		return err
	}

	s.items = staged.items
	s.movements = staged.movements
	return nil
}

type fakeTxRepos struct {
	scope *fakeTxScope
}

func (r *fakeTxRepos) Items() ports.TxItemRepository         { return &fakeTxItems{scope: r.scope} }
func (r *fakeTxRepos) Movements() ports.TxMovementRepository { return &fakeTxMovements{scope: r.scope} }

type fakeTxItems struct {
	scope *fakeTxScope
}

func (f *fakeTxItems) Save(_ context.Context, item *domain.Item) error {
	if f.scope.saveErr != nil {
		return f.scope.saveErr
	}
	copied := *item
	f.scope.items[item.ID] = &copied
	return nil
}

func (f *fakeTxItems) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	item, ok := f.scope.items[id]
	if !ok {
		return nil, nil
	}
	copied := *item
	return &copied, nil
}

func (f *fakeTxItems) SetQuantityAndStatus(_ context.Context, id uuid.UUID, quantity int, status domain.ItemStatus) (*domain.Item, error) {
	item, ok := f.scope.items[id]
	if !ok {
		return nil, domain.NewNotFound("item", id)
	}
	item.Quantity = quantity
	item.Status = status
	copied := *item
	return &copied, nil
}

type fakeTxMovements struct {
	scope *fakeTxScope
}

func (f *fakeTxMovements) Insert(_ context.Context, movement *domain.Movement) error {
	if f.scope.insertErr != nil {
		return f.scope.insertErr
	}
	f.scope.movements = append(f.scope.movements, *movement)
	return nil
}

func newMovementService(t *testing.T, scope ports.TransactionScope) *services.MovementService {
	t.Helper()
	return services.NewMovementService(scope, nil, nil, nil, nil, helpers.TestLogger())
}

func TestMovementService_RecordMovement(t *testing.T) {
	itemID := uuid.New()

	tests := []struct {
		name             string
		startQuantity    int
		movementType     domain.MovementType
		quantity         int
		expectedQuantity int
		expectedStatus   domain.ItemStatus
		expectedError    func(t *testing.T, err error)
	}{
		{
			name:             "in_adds_to_quantity",
			startQuantity:    10,
			movementType:     domain.MovementIn,
			quantity:         5,
			expectedQuantity: 15,
			expectedStatus:   domain.StatusActive,
		},
		{
			name:             "return_adds_to_quantity",
			startQuantity:    10,
			movementType:     domain.MovementReturn,
			quantity:         3,
			expectedQuantity: 13,
			expectedStatus:   domain.StatusActive,
		},
		{
			name:             "out_subtracts_from_quantity",
			startQuantity:    10,
			movementType:     domain.MovementOut,
			quantity:         4,
			expectedQuantity: 6,
			expectedStatus:   domain.StatusActive,
		},
		{
			name:             "transfer_subtracts_from_quantity",
			startQuantity:    10,
			movementType:     domain.MovementTransfer,
			quantity:         10,
			expectedQuantity: 0,
			expectedStatus:   domain.StatusOutOfStock,
		},
		{
			name:             "adjustment_sets_absolute_quantity",
			startQuantity:    10,
			movementType:     domain.MovementAdjustment,
			quantity:         42,
			expectedQuantity: 42,
			expectedStatus:   domain.StatusActive,
		},
		{
			name:             "adjustment_to_zero_marks_out_of_stock",
			startQuantity:    10,
			movementType:     domain.MovementAdjustment,
			quantity:         0,
			expectedQuantity: 0,
			expectedStatus:   domain.StatusOutOfStock,
		},
		{
			name:          "out_exceeding_stock_is_rejected",
			startQuantity: 3,
			movementType:  domain.MovementOut,
			quantity:      5,
			expectedError: func(t *testing.T, err error) {
				var stockErr *domain.InsufficientStockError
				require.ErrorAs(t, err, &stockErr)
				assert.Equal(t, 5, stockErr.Requested)
				assert.Equal(t, 3, stockErr.Available)
			},
		},
		{
			name:          "zero_quantity_delta_is_rejected",
			startQuantity: 10,
			movementType:  domain.MovementIn,
			quantity:      0,
			expectedError: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name:          "negative_adjustment_is_rejected",
			startQuantity: 10,
			movementType:  domain.MovementAdjustment,
			quantity:      -1,
			expectedError: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
		{
			name:          "unknown_type_is_rejected",
			startQuantity: 10,
			movementType:  domain.MovementType("TELEPORT"),
			quantity:      1,
			expectedError: func(t *testing.T, err error) {
				assert.True(t, domain.IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := helpers.CreateTestItem(func(i *domain.Item) {
				i.ID = itemID
				i.Quantity = tt.startQuantity
				i.MinQuantity = 0
			})
			scope := newFakeTxScope(item)
			service := newMovementService(t, scope)

			result, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
				ItemID:   itemID,
				Type:     tt.movementType,
				Quantity: tt.quantity,
			})

			if tt.expectedError != nil {
				require.Error(t, err)
				tt.expectedError(t, err)
				assert.Nil(t, result)
				// A rejected movement leaves both the ledger and the item
				// untouched.
				assert.Empty(t, scope.movements)
				assert.Equal(t, tt.startQuantity, scope.items[itemID].Quantity)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.startQuantity, result.PreviousQuantity)
			assert.Equal(t, tt.expectedQuantity, result.NewQuantity)
			assert.Equal(t, tt.expectedStatus, result.Status)

			require.Len(t, scope.movements, 1)
			assert.Equal(t, tt.movementType, scope.movements[0].Type)
			assert.NotEqual(t, uuid.Nil, scope.movements[0].ID)
			assert.Equal(t, tt.expectedQuantity, scope.items[itemID].Quantity)
			assert.Equal(t, tt.expectedStatus, scope.items[itemID].Status)
		})
	}
}

func TestMovementService_RecordMovement_ItemNotFound(t *testing.T) {
	scope := newFakeTxScope()
	service := newMovementService(t, scope)

	_, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   uuid.New(),
		Type:     domain.MovementIn,
		Quantity: 1,
	})

	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, scope.movements)
}

func TestMovementService_RecordMovement_InsertFailureRollsBack(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 10 })
	scope := newFakeTxScope(item)
	scope.insertErr = errors.New("connection reset")
	service := newMovementService(t, scope)

	_, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementIn,
		Quantity: 5,
	})

	require.Error(t, err)
	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	// The transaction rolled back: no ledger entry, quantity unchanged.
	assert.Empty(t, scope.movements)
	assert.Equal(t, 10, scope.items[item.ID].Quantity)
}

func TestMovementService_RecordMovement_RetriesSerializationFailure(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 10 })
	scope := newFakeTxScope(item)
	scope.execErrs = []error{&pgconn.PgError{Code: "40001"}}
	service := newMovementService(t, scope)

	result, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementOut,
		Quantity: 2,
	})

	require.NoError(t, err)
	assert.Equal(t, 8, result.NewQuantity)
	assert.Equal(t, 2, scope.calls)
	assert.Len(t, scope.movements, 1)
}

func TestMovementService_RecordMovement_ExhaustsRetries(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 10 })
	scope := newFakeTxScope(item)
	scope.execErrs = []error{
		&pgconn.PgError{Code: "40001"},
		&pgconn.PgError{Code: "40P01"},
		&pgconn.PgError{Code: "40001"},
	}
	service := newMovementService(t, scope)

	_, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementIn,
		Quantity: 1,
	})

	require.Error(t, err)
	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 3, scope.calls)
	assert.Empty(t, scope.movements)
}

func TestMovementService_RecordMovement_NonRetryableErrorFailsFast(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 10 })
	scope := newFakeTxScope(item)
	scope.execErrs = []error{&pgconn.PgError{Code: "23505"}}
	service := newMovementService(t, scope)

	_, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementIn,
		Quantity: 1,
	})

	require.Error(t, err)
	var storageErr *domain.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, 1, scope.calls)
}

// lockingTxScope serializes Execute calls the way the row lock in the real
// scope serializes concurrent movements against one item.
type lockingTxScope struct {
	mu    sync.Mutex
	inner *fakeTxScope
}

func (s *lockingTxScope) Execute(ctx context.Context, fn func(ports.TxRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Execute(ctx, fn)
}

func TestMovementService_RecordMovement_ConcurrentOutsNeverOversell(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 10
		i.MinQuantity = 0
	})
	inner := newFakeTxScope(item)
	scope := &lockingTxScope{inner: inner}
	service := newMovementService(t, scope)

	// Two shipments of 6 against 10 on hand: exactly one can win.
	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
				ItemID:   item.ID,
				Type:     domain.MovementOut,
				Quantity: 6,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	applied, rejected := 0, 0
	for err := range results {
		if err == nil {
			applied++
			continue
		}
		require.True(t, domain.IsInsufficientStock(err))
		rejected++
	}
	assert.Equal(t, 1, applied)
	assert.Equal(t, 1, rejected)

	assert.Equal(t, 4, inner.items[item.ID].Quantity)
	require.Len(t, inner.movements, 1)
	assert.Equal(t, domain.MovementOut, inner.movements[0].Type)
}

func TestMovementService_RecordMovement_LowStockTriggersAlert(t *testing.T) {
	ctrl := gomock.NewController(t)

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 12
		i.MinQuantity = 10
	})
	scope := newFakeTxScope(item)

	alerter := mocks.NewMockAlerter(ctrl)
	alerter.EXPECT().
		NotifyLowStock(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, alerted *domain.Item) error {
			assert.Equal(t, item.ID, alerted.ID)
			assert.Equal(t, 9, alerted.Quantity)
			return nil
		})

	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().DeletePattern(gomock.Any(), "stats:*").Return(nil)

	service := services.NewMovementService(scope, nil, nil, cache, alerter, helpers.TestLogger())

	result, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementOut,
		Quantity: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, 9, result.NewQuantity)
}

func TestMovementService_RecordMovement_AlertFailureDoesNotFailMovement(t *testing.T) {
	ctrl := gomock.NewController(t)

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 5
		i.MinQuantity = 10
	})
	scope := newFakeTxScope(item)

	alerter := mocks.NewMockAlerter(ctrl)
	alerter.EXPECT().
		NotifyLowStock(gomock.Any(), gomock.Any()).
		Return(errors.New("queue unavailable"))

	service := services.NewMovementService(scope, nil, nil, nil, alerter, helpers.TestLogger())

	result, err := service.RecordMovement(context.Background(), ports.RecordMovementParams{
		ItemID:   item.ID,
		Type:     domain.MovementOut,
		Quantity: 1,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, result.NewQuantity)
}

func TestMovementService_AdjustQuantity(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) { i.Quantity = 7 })
	scope := newFakeTxScope(item)
	service := newMovementService(t, scope)

	result, err := service.AdjustQuantity(context.Background(), item.ID, 0, "cycle count", nil)

	require.NoError(t, err)
	assert.Equal(t, 7, result.PreviousQuantity)
	assert.Equal(t, 0, result.NewQuantity)
	assert.Equal(t, domain.StatusOutOfStock, result.Status)

	require.Len(t, scope.movements, 1)
	assert.Equal(t, domain.MovementAdjustment, scope.movements[0].Type)
	assert.Equal(t, "cycle count", scope.movements[0].Reason)
}

func TestMovementService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	movements := mocks.NewMockMovementRepository(ctrl)
	service := services.NewMovementService(nil, movements, nil, nil, nil, helpers.TestLogger())

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		movements.EXPECT().
			FindByID(gomock.Any(), id).
			Return(&domain.Movement{ID: id, Type: domain.MovementIn, Quantity: 5}, nil)

		movement, err := service.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, movement.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		id := uuid.New()
		movements.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		_, err := service.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestMovementService_ListByItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	movements := mocks.NewMockMovementRepository(ctrl)
	items := mocks.NewMockItemRepository(ctrl)
	service := services.NewMovementService(nil, movements, items, nil, nil, helpers.TestLogger())

	t.Run("missing_item", func(t *testing.T) {
		id := uuid.New()
		items.EXPECT().Exists(gomock.Any(), id).Return(false, nil)

		_, err := service.ListByItem(context.Background(), id, ports.Page{})
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("paginates", func(t *testing.T) {
		id := uuid.New()
		items.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
		movements.EXPECT().
			FindByItem(gomock.Any(), id, ports.Page{Number: 2, Size: 10}).
			Return([]domain.Movement{{ItemID: id}}, int64(25), nil)

		result, err := service.ListByItem(context.Background(), id, ports.Page{Number: 2, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, result.Page)
		assert.Equal(t, 10, result.PageSize)
		assert.Equal(t, int64(25), result.TotalCount)
		assert.Equal(t, 3, result.TotalPages)
	})
}

func TestMovementService_List_RejectsUnknownType(t *testing.T) {
	service := services.NewMovementService(nil, nil, nil, nil, nil, helpers.TestLogger())

	_, err := service.List(context.Background(), ports.MovementListParams{
		Type: domain.MovementType("BOGUS"),
	})

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestMovementService_ListByDateRange_RejectsInvertedRange(t *testing.T) {
	service := services.NewMovementService(nil, nil, nil, nil, nil, helpers.TestLogger())

	from := time.Now()
	to := from.Add(-time.Hour)

	_, err := service.ListByDateRange(context.Background(), from, to, ports.Page{})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestMovementService_Aggregate(t *testing.T) {
	ctrl := gomock.NewController(t)
	movements := mocks.NewMockMovementRepository(ctrl)
	items := mocks.NewMockItemRepository(ctrl)
	service := services.NewMovementService(nil, movements, items, nil, nil, helpers.TestLogger())

	t.Run("missing_item", func(t *testing.T) {
		id := uuid.New()
		items.EXPECT().Exists(gomock.Any(), id).Return(false, nil)

		_, err := service.Aggregate(context.Background(), &id)
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("all_items", func(t *testing.T) {
		movements.EXPECT().
			Aggregate(gomock.Any(), nil).
			Return([]domain.MovementAggregate{
				{Type: domain.MovementIn, TotalQuantity: 100, Count: 4},
				{Type: domain.MovementOut, TotalQuantity: 60, Count: 7},
			}, nil)

		aggregates, err := service.Aggregate(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, aggregates, 2)
		assert.Equal(t, int64(100), aggregates[0].TotalQuantity)
	})
}
