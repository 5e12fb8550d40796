// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/mmammidi/inventory-management-api/internal/adapters/db"
	redis_a "github.com/mmammidi/inventory-management-api/internal/adapters/redis_adapter"
	"github.com/mmammidi/inventory-management-api/internal/adapters/storage"
	"github.com/mmammidi/inventory-management-api/internal/core/services"
	"github.com/mmammidi/inventory-management-api/internal/handlers"
	"github.com/mmammidi/inventory-management-api/internal/handlers/middleware"
	"github.com/mmammidi/inventory-management-api/internal/pkg/config"
	"github.com/mmammidi/inventory-management-api/internal/pkg/logger"
	"github.com/mmammidi/inventory-management-api/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting inventory management api",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
		slog.String("go_version", GoVersion),
	)

	cfg, err := config.Load(slogger.Logger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if cfg.App.Environment != "production" {
		if err := runMigrations(ctx, cfg, slogger.Logger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
			slog.Bool("tls", cfg.Server.TLSEnabled),
		)

		if cfg.Server.TLSEnabled {
			serverErrors <- server.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		if deps.asynqClient != nil {
			if err := deps.asynqClient.Close(); err != nil {
				slogger.Error("failed to close Asynq client", slog.String("error", err.Error()))
			}
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database        *db.Database
	redisClient     *redis.Client
	asynqClient     *asynq.Client
	asynqInspector  *asynq.Inspector
	itemHandler     *handlers.ItemHandler
	movementHandler *handlers.MovementHandler
	catalogHandler  *handlers.CatalogHandler
	statsHandler    *handlers.StatsHandler
	exportHandler   *handlers.ExportHandler
	healthHandler   *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.database != nil {
		d.database.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, l *logger.Logger) (*dependencies, error) {
	deps := &dependencies{}
	slogger := l.Logger

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		StatementCacheMode: cfg.Database.StatementCacheMode,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		ConnMaxLifetime: cfg.Redis.MaxConnAge,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		ConnMaxIdleTime: cfg.Redis.IdleTimeout,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient

	cache := redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	slogger.Info("initializing Asynq client")
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Repositories
	itemRepo := db.NewItemRepository(database, slogger)
	movementRepo := db.NewMovementRepository(database, slogger)
	categoryRepo := db.NewCategoryRepository(database, slogger)
	supplierRepo := db.NewSupplierRepository(database, slogger)
	userRepo := db.NewUserRepository(database, slogger)
	txScope := db.NewTransactionScope(database, slogger)

	// Services
	alerter := workers.NewAsynqAlerter(deps.asynqClient, slogger)
	itemService := services.NewItemService(txScope, itemRepo, cache, slogger)
	movementService := services.NewMovementService(txScope, movementRepo, itemRepo, cache, alerter, slogger)
	categoryService := services.NewCategoryService(categoryRepo, slogger)
	supplierService := services.NewSupplierService(supplierRepo, slogger)
	userService := services.NewUserService(userRepo, slogger)
	statsService := services.NewStatsService(database.Pool(), movementRepo, cache, slogger)

	// Optional export archive storage
	var archive storage.StorageClient
	if cfg.AWS.S3Bucket != "" {
		s3Client, err := storage.NewS3Storage(ctx, &storage.S3Config{
			Region:          cfg.AWS.Region,
			Bucket:          cfg.AWS.S3Bucket,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			Endpoint:        cfg.AWS.S3Endpoint,
			UsePathStyle:    cfg.AWS.UsePathStyle,
		}, slogger)
		if err != nil {
			slogger.Warn("export archiving disabled",
				slog.String("error", err.Error()))
		} else {
			archive = s3Client
		}
	}

	// Handlers
	deps.itemHandler = handlers.NewItemHandler(itemService, slogger)
	deps.movementHandler = handlers.NewMovementHandler(movementService, slogger)
	deps.catalogHandler = handlers.NewCatalogHandler(categoryService, supplierService, userService, slogger)
	deps.statsHandler = handlers.NewStatsHandler(statsService, slogger)
	deps.exportHandler = handlers.NewExportHandler(movementRepo, archive, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, l *logger.Logger) *http.Server {
	mux := http.NewServeMux()

	// Setup middleware chain
	var handler http.Handler = mux

	// Apply middleware in reverse order (innermost first)
	if cfg.App.Environment != "test" {
		handler = middleware.RequestID(handler)
		handler = middleware.Logger(l)(handler)
		handler = middleware.Recovery(l.Logger)(handler)
	}

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}

	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}

	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	registerRoutes(mux, deps, cfg)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(l.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	if cfg.Server.EnableHealthCheck {
		mux.HandleFunc("GET /health", deps.healthHandler.Health)
		mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)
		mux.HandleFunc("GET "+apiV1+"/health", deps.healthHandler.Health)
	}

	// Item endpoints
	mux.HandleFunc("POST "+apiV1+"/items", deps.itemHandler.CreateItem)
	mux.HandleFunc("GET "+apiV1+"/items", deps.itemHandler.ListItems)
	mux.HandleFunc("GET "+apiV1+"/items/{id}", deps.itemHandler.GetItem)
	mux.HandleFunc("GET "+apiV1+"/items/sku/{sku}", deps.itemHandler.GetItemBySKU)
	mux.HandleFunc("PUT "+apiV1+"/items/{id}", deps.itemHandler.UpdateItem)
	mux.HandleFunc("DELETE "+apiV1+"/items/{id}", deps.itemHandler.DeleteItem)

	// Stock ledger endpoints
	mux.HandleFunc("POST "+apiV1+"/movements", deps.movementHandler.CreateMovement)
	mux.HandleFunc("GET "+apiV1+"/movements", deps.movementHandler.ListMovements)
	mux.HandleFunc("GET "+apiV1+"/movements/aggregate", deps.movementHandler.AggregateMovements)
	mux.HandleFunc("GET "+apiV1+"/movements/range", deps.movementHandler.ListMovementsByRange)
	mux.HandleFunc("GET "+apiV1+"/movements/{id}", deps.movementHandler.GetMovement)
	mux.HandleFunc("GET "+apiV1+"/items/{id}/movements", deps.movementHandler.ListItemMovements)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/adjust", deps.movementHandler.AdjustQuantity)

	// Category endpoints
	mux.HandleFunc("POST "+apiV1+"/categories", deps.catalogHandler.CreateCategory)
	mux.HandleFunc("GET "+apiV1+"/categories", deps.catalogHandler.ListCategories)
	mux.HandleFunc("GET "+apiV1+"/categories/{id}", deps.catalogHandler.GetCategory)
	mux.HandleFunc("PUT "+apiV1+"/categories/{id}", deps.catalogHandler.UpdateCategory)
	mux.HandleFunc("DELETE "+apiV1+"/categories/{id}", deps.catalogHandler.DeleteCategory)

	// Supplier endpoints
	mux.HandleFunc("POST "+apiV1+"/suppliers", deps.catalogHandler.CreateSupplier)
	mux.HandleFunc("GET "+apiV1+"/suppliers", deps.catalogHandler.ListSuppliers)
	mux.HandleFunc("GET "+apiV1+"/suppliers/{id}", deps.catalogHandler.GetSupplier)
	mux.HandleFunc("PUT "+apiV1+"/suppliers/{id}", deps.catalogHandler.UpdateSupplier)
	mux.HandleFunc("DELETE "+apiV1+"/suppliers/{id}", deps.catalogHandler.DeleteSupplier)

	// User endpoints
	mux.HandleFunc("POST "+apiV1+"/users", deps.catalogHandler.CreateUser)
	mux.HandleFunc("GET "+apiV1+"/users", deps.catalogHandler.ListUsers)
	mux.HandleFunc("GET "+apiV1+"/users/{id}", deps.catalogHandler.GetUser)
	mux.HandleFunc("PUT "+apiV1+"/users/{id}", deps.catalogHandler.UpdateUser)
	mux.HandleFunc("DELETE "+apiV1+"/users/{id}", deps.catalogHandler.DeleteUser)

	// Stats endpoints
	mux.HandleFunc("GET "+apiV1+"/stats", deps.statsHandler.GetStats)
	mux.HandleFunc("GET "+apiV1+"/stats/low-stock", deps.statsHandler.GetLowStock)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/movements", deps.exportHandler.ExportMovements)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}

func runMigrations(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
		TableName:   "schema_migrations",
		SchemaName:  "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, logger, 3)
}
