// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// seedCategory is a category row to insert
type seedCategory struct {
	ID   uuid.UUID
	Name string
}

// seedSupplier is a supplier row to insert
type seedSupplier struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// seedItem is an item row plus its opening ledger entry
type seedItem struct {
	ID          uuid.UUID
	SKU         string
	Name        string
	CategoryID  uuid.UUID
	SupplierID  uuid.UUID
	Quantity    int
	MinQuantity int
	UnitCost    decimal.Decimal
	UnitPrice   decimal.Decimal
}

var categoryNames = []string{
	"Fasteners", "Electrical", "Plumbing", "Hand Tools", "Power Tools",
	"Safety Equipment", "Adhesives", "Abrasives", "Bearings", "Packaging",
}

var supplierNames = []string{
	"Acme Industrial Supply", "Northside Components", "Delta Hardware Co",
	"Precision Parts Ltd", "Summit Wholesale",
}

var itemNouns = []string{
	"Hex Bolt", "Wood Screw", "Washer", "Cable Tie", "Wire Spool",
	"Ball Valve", "Pipe Fitting", "Claw Hammer", "Socket Set", "Drill Bit",
	"Safety Goggles", "Work Gloves", "Epoxy Resin", "Sanding Disc",
	"Roller Bearing", "Stretch Film",
}

var itemQualifiers = []string{
	"M6", "M8", "M10", "Stainless", "Galvanized", "Heavy Duty",
	"Standard", "Industrial", "Compact", "Premium",
}

func main() {
	var (
		itemCount = flag.Int("items", 200, "Number of items to seed")
		seed      = flag.Int64("seed", 42, "Random seed for reproducible data")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview changes without modifying database")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "inventory"),
		getEnv("DB_PASSWORD", "inventory_dev"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "inventory"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()
	rng := rand.New(rand.NewSource(*seed))

	categories := buildCategories()
	suppliers := buildSuppliers()
	items := buildItems(rng, *itemCount, categories, suppliers)

	if *dryRun {
		for _, item := range items[:min(10, len(items))] {
			fmt.Printf("would seed %s  %-30s qty=%d cost=%s\n",
				item.SKU, item.Name, item.Quantity, item.UnitCost)
		}
		fmt.Printf("\n[DRY RUN] %d categories, %d suppliers, %d items, no changes made\n",
			len(categories), len(suppliers), len(items))
		return
	}

	db, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := seedAll(ctx, db, categories, suppliers, items); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed operation completed",
		slog.Int("categories", len(categories)),
		slog.Int("suppliers", len(suppliers)),
		slog.Int("items", len(items)))

	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Seeded %d categories, %d suppliers, %d items\n",
		len(categories), len(suppliers), len(items))
}

func buildCategories() []seedCategory {
	categories := make([]seedCategory, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, seedCategory{ID: uuid.New(), Name: name})
	}
	return categories
}

func buildSuppliers() []seedSupplier {
	suppliers := make([]seedSupplier, 0, len(supplierNames))
	for _, name := range supplierNames {
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
		suppliers = append(suppliers, seedSupplier{ID: uuid.New(), Name: name, Email: email})
	}
	return suppliers
}

func buildItems(rng *rand.Rand, count int, categories []seedCategory, suppliers []seedSupplier) []seedItem {
	items := make([]seedItem, 0, count)
	seenNames := make(map[string]int)

	for i := 0; i < count; i++ {
		noun := itemNouns[rng.Intn(len(itemNouns))]
		qualifier := itemQualifiers[rng.Intn(len(itemQualifiers))]
		name := qualifier + " " + noun
		seenNames[name]++
		if n := seenNames[name]; n > 1 {
			name = fmt.Sprintf("%s #%d", name, n)
		}

		cost := decimal.NewFromFloat(float64(rng.Intn(5000)+50) / 100).Round(2)
		markup := decimal.NewFromFloat(1.0 + rng.Float64())

		items = append(items, seedItem{
			ID:          uuid.New(),
			SKU:         fmt.Sprintf("SKU-%04d", i+1),
			Name:        name,
			CategoryID:  categories[rng.Intn(len(categories))].ID,
			SupplierID:  suppliers[rng.Intn(len(suppliers))].ID,
			Quantity:    rng.Intn(500),
			MinQuantity: rng.Intn(20) + 1,
			UnitCost:    cost,
			UnitPrice:   cost.Mul(markup).Round(2),
		})
	}
	return items
}

// seedAll inserts everything in one transaction. Each item gets an opening
// ADJUSTMENT movement so that replaying the ledger reproduces the stored
// quantity.
func seedAll(ctx context.Context, db *pgxpool.Pool, categories []seedCategory, suppliers []seedSupplier, items []seedItem) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}

	for _, c := range categories {
		batch.Queue(`
			INSERT INTO categories (id, name, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) WHERE deleted_at IS NULL DO NOTHING`,
			c.ID, c.Name,
		)
	}

	for _, s := range suppliers {
		batch.Queue(`
			INSERT INTO suppliers (id, name, email, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (id) DO NOTHING`,
			s.ID, s.Name, s.Email,
		)
	}

	for _, item := range items {
		status := "ACTIVE"
		if item.Quantity == 0 {
			status = "OUT_OF_STOCK"
		}
		batch.Queue(`
			INSERT INTO items (
				id, sku, name, category_id, supplier_id,
				quantity, min_quantity, unit_cost, unit_price, status,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			ON CONFLICT (sku) WHERE deleted_at IS NULL DO NOTHING`,
			item.ID, item.SKU, item.Name, item.CategoryID, item.SupplierID,
			item.Quantity, item.MinQuantity, item.UnitCost, item.UnitPrice, status,
		)
		batch.Queue(`
			INSERT INTO movements (id, item_id, type, quantity, reason, created_at)
			VALUES ($1, $2, 'ADJUSTMENT', $3, 'initial stock', NOW())`,
			uuid.New(), item.ID, item.Quantity,
		)
	}

	br := tx.SendBatch(ctx, batch)
	queued := len(categories) + len(suppliers) + len(items)*2
	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to execute seed batch: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
