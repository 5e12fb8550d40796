// internal/handlers/export.go
package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/mmammidi/inventory-management-api/internal/adapters/storage"
	"github.com/mmammidi/inventory-management-api/internal/core/domain"
	"github.com/mmammidi/inventory-management-api/internal/core/ports"
)

// exportPageSize caps each repository fetch while paging the full ledger.
const exportPageSize = 1000

var exportHeaders = []string{
	"Movement ID", "Item ID", "Type", "Quantity",
	"Reason", "Reference", "Notes", "User ID", "Created At",
}

// ExportHandler streams ledger exports as CSV or Excel, optionally
// archiving the file to object storage instead of streaming it.
type ExportHandler struct {
	movements ports.MovementRepository
	archive   storage.StorageClient
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler. The archive client may be
// nil when archiving is disabled.
func NewExportHandler(movements ports.MovementRepository, archive storage.StorageClient, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		movements: movements,
		archive:   archive,
		logger:    logger.With(slog.String("handler", "export")),
	}
}

// ExportMovements handles GET /api/v1/export/movements
func (h *ExportHandler) ExportMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := parseMovementListParams(r)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		respondError(w, h.logger, http.StatusBadRequest, "format must be csv or xlsx")
		return
	}

	h.logger.InfoContext(ctx, "starting ledger export",
		slog.String("format", format))

	movements, err := h.collectMovements(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load ledger for export",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to load movements")
		return
	}

	var data []byte
	var contentType string
	switch format {
	case "xlsx":
		data, err = h.generateExcel(movements)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		data, err = h.generateCSV(movements)
		contentType = "text/csv"
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate export file",
			slog.String("format", format),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to generate export")
		return
	}

	if r.URL.Query().Get("archive") == "true" {
		h.archiveExport(ctx, w, format, contentType, data, len(movements))
		return
	}

	filename := fmt.Sprintf("movements_%s.%s", time.Now().Format("20060102_150405"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write export response",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "ledger export completed",
		slog.Int("rows", len(movements)),
		slog.String("filename", filename))
}

// archiveExport uploads the export to object storage and responds with the
// object key and a short-lived download URL.
func (h *ExportHandler) archiveExport(ctx context.Context, w http.ResponseWriter, format, contentType string, data []byte, rows int) {
	if h.archive == nil {
		respondError(w, h.logger, http.StatusServiceUnavailable, "export archiving is not enabled")
		return
	}

	key := storage.ExportKey(format, time.Now().UTC())
	if _, err := h.archive.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		h.logger.ErrorContext(ctx, "failed to archive export",
			slog.String("key", key),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "failed to archive export")
		return
	}

	url, err := h.archive.GetPresignedURL(ctx, key, 15*time.Minute)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to presign archived export",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	h.logger.InfoContext(ctx, "ledger export archived",
		slog.Int("rows", rows),
		slog.String("key", key))

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"key":  key,
		"url":  url,
		"rows": rows,
	})
}

// collectMovements pages through the full filtered ledger.
func (h *ExportHandler) collectMovements(ctx context.Context, params ports.MovementListParams) ([]domain.Movement, error) {
	var all []domain.Movement

	params.Page = ports.Page{Number: 1, Size: exportPageSize}
	for {
		movements, total, err := h.movements.FindAll(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, movements...)
		if len(movements) < exportPageSize || int64(len(all)) >= total {
			return all, nil
		}
		params.Page.Number++
	}
}

func (h *ExportHandler) generateCSV(movements []domain.Movement) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range movements {
		if err := writer.Write(movementRow(&movements[i])); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func (h *ExportHandler) generateExcel(movements []domain.Movement) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Movements")
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range exportHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for i := range movements {
		row := sheet.AddRow()
		for _, value := range movementRow(&movements[i]) {
			row.AddCell().Value = value
		}
	}

	// Column indexes are 1-based in xlsx/v3.
	for i := 1; i <= len(exportHeaders); i++ {
		sheet.SetColWidth(i, i, 18)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func movementRow(m *domain.Movement) []string {
	userID := ""
	if m.UserID != nil {
		userID = m.UserID.String()
	}
	return []string{
		m.ID.String(),
		m.ItemID.String(),
		string(m.Type),
		strconv.Itoa(m.Quantity),
		m.Reason,
		m.Reference,
		m.Notes,
		userID,
		m.CreatedAt.Format(time.RFC3339),
	}
}
