// internal/handlers/export_test.go
package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/handlers"
	"github.com/mmammidi/inventory-management-api/test/helpers"
	"github.com/mmammidi/inventory-management-api/test/mocks"
)

func TestExportHandler_CSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMovementRepository(ctrl)

	itemID := uuid.New()
	ledger := []domain.Movement{
		{ID: uuid.New(), ItemID: itemID, Type: domain.MovementIn, Quantity: 5, Reason: "restock", CreatedAt: time.Now()},
		{ID: uuid.New(), ItemID: itemID, Type: domain.MovementOut, Quantity: 2, CreatedAt: time.Now()},
	}
	repo.EXPECT().
		FindAll(gomock.Any(), gomock.Any()).
		Return(ledger, int64(len(ledger)), nil)

	handler := handlers.NewExportHandler(repo, nil, helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/movements", nil)
	rec := httptest.NewRecorder()

	handler.ExportMovements(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Movement ID")
	assert.Contains(t, lines[1], "restock")
}

func TestExportHandler_Excel(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMovementRepository(ctrl)

	repo.EXPECT().
		FindAll(gomock.Any(), gomock.Any()).
		Return([]domain.Movement{
			{ID: uuid.New(), ItemID: uuid.New(), Type: domain.MovementAdjustment, Quantity: 7, CreatedAt: time.Now()},
		}, int64(1), nil)

	handler := handlers.NewExportHandler(repo, nil, helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/movements?format=xlsx", nil)
	rec := httptest.NewRecorder()

	handler.ExportMovements(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())
}

func TestExportHandler_RejectsUnknownFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMovementRepository(ctrl)

	handler := handlers.NewExportHandler(repo, nil, helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/movements?format=pdf", nil)
	rec := httptest.NewRecorder()

	handler.ExportMovements(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandler_ArchiveWithoutStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockMovementRepository(ctrl)

	repo.EXPECT().
		FindAll(gomock.Any(), gomock.Any()).
		Return(nil, int64(0), nil)

	handler := handlers.NewExportHandler(repo, nil, helpers.TestLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/movements?archive=true", nil)
	rec := httptest.NewRecorder()

	handler.ExportMovements(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
