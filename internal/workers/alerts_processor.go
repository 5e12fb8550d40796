// internal/workers/alerts_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"

	"github.com/hibiken/asynq"

	"github.com/mmammidi/inventory-management-api/internal/pkg/config"
)

// AlertsProcessor handles low stock alert tasks
type AlertsProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewAlertsProcessor creates a new alerts processor
func NewAlertsProcessor(config *config.Config, logger *slog.Logger) *AlertsProcessor {
	return &AlertsProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "alerts")),
	}
}

// HandleLowStock delivers a low stock notification
func (p *AlertsProcessor) HandleLowStock(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "processing low stock alert",
		slog.String("item_id", payload.ItemID.String()),
		slog.String("sku", payload.SKU),
		slog.Int("quantity", payload.Quantity),
		slog.Int("min_quantity", payload.MinQuantity))

	subject := fmt.Sprintf("Low stock: %s (%s)", payload.Name, payload.SKU)
	body := fmt.Sprintf(
		"Item %s (%s) is down to %d units; the configured minimum is %d.",
		payload.Name, payload.SKU, payload.Quantity, payload.MinQuantity,
	)

	// Without an SMTP host configured the alert is log-only. Same in
	// development regardless of SMTP settings.
	smtpHost := os.Getenv("SMTP_HOST")
	if smtpHost == "" || p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "low stock alert",
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	smtpPort := os.Getenv("SMTP_PORT")
	if smtpPort == "" {
		smtpPort = "587"
	}

	from := "noreply@" + p.config.App.Name
	to := getAlertRecipient()
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, to, subject, body,
	))

	auth := smtp.PlainAuth("", os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"), smtpHost)
	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	p.logger.InfoContext(ctx, "low stock alert sent",
		slog.String("sku", payload.SKU))
	return nil
}

func getAlertRecipient() string {
	if to := os.Getenv("ALERT_EMAIL"); to != "" {
		return to
	}
	return "inventory-alerts@example.com"
}
