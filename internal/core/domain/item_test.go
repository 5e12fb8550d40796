package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
)

func validItem() *domain.Item {
	return &domain.Item{
		SKU:         "SKU-0001",
		Name:        "M6 Hex Bolt",
		Quantity:    25,
		MinQuantity: 5,
		UnitCost:    decimal.NewFromFloat(0.12),
		UnitPrice:   decimal.NewFromFloat(0.30),
	}
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*domain.Item)
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid_item",
			mutate: func(i *domain.Item) {},
		},
		{
			name:      "missing_sku",
			mutate:    func(i *domain.Item) { i.SKU = "" },
			wantError: true,
			errorMsg:  "sku",
		},
		{
			name:      "missing_name",
			mutate:    func(i *domain.Item) { i.Name = "" },
			wantError: true,
			errorMsg:  "name",
		},
		{
			name:      "negative_quantity",
			mutate:    func(i *domain.Item) { i.Quantity = -1 },
			wantError: true,
			errorMsg:  "quantity",
		},
		{
			name: "max_below_min",
			mutate: func(i *domain.Item) {
				max := 2
				i.MinQuantity = 5
				i.MaxQuantity = &max
			},
			wantError: true,
			errorMsg:  "max_quantity",
		},
		{
			name:      "negative_unit_cost",
			mutate:    func(i *domain.Item) { i.UnitCost = decimal.NewFromFloat(-1) },
			wantError: true,
			errorMsg:  "unit_cost",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			tt.mutate(item)

			err := item.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, domain.IsValidation(err))
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestItem_PrepareForStorage(t *testing.T) {
	item := validItem()
	item.PrepareForStorage()

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, domain.StatusActive, item.Status)

	item.Quantity = 0
	item.PrepareForStorage()
	assert.Equal(t, domain.StatusOutOfStock, item.Status)
}

func TestItem_IsLowStock(t *testing.T) {
	item := validItem()
	item.MinQuantity = 10

	item.Quantity = 11
	assert.False(t, item.IsLowStock())

	item.Quantity = 10
	assert.True(t, item.IsLowStock())

	item.Quantity = 0
	assert.True(t, item.IsLowStock())
}

func TestItem_StockValue(t *testing.T) {
	item := validItem()
	item.UnitCost = decimal.NewFromFloat(2.50)
	item.Quantity = 4

	assert.True(t, decimal.NewFromFloat(10).Equal(item.StockValue()))
}
