package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rtmsys/weighbridge_app/internal/core/domain"
	"github.com/rtmsys/weighbridge_app/internal/core/scale"
	"github.com/rtmsys/weighbridge_app/internal/core/services"
	"github.com/rtmsys/weighbridge_app/internal/handlers"
	"github.com/rtmsys/weighbridge_app/internal/middleware"
	"github.com/rtmsys/weighbridge_app/internal/platform/config"
	"github.com/rtmsys/weighbridge_app/internal/repositories/database/pgsql"
	"github.com/rtmsys/weighbridge_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories and services
	repos := pgsql.NewRepositoryProvider(dbPool)
	svcs := services.NewContainer(repos)

	if err := svcs.User.EnsureDefaultAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("Failed to seed default admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire the scale pipeline
	var source scale.Source
	if cfg.ScaleSimulate {
		logger.Info("Running scale in simulator mode", slog.Float64("base_weight_kg", cfg.ScaleBaseWeightKg))
		source = scale.NewSimulator(cfg.ScaleBaseWeightKg)
	} else {
		logger.Info("Connecting to scale indicator",
			slog.String("port", cfg.ScalePort),
			slog.Int("baud_rate", cfg.ScaleBaudRate),
		)
		source = scale.NewSerialReader(cfg.ScalePort, cfg.ScaleBaudRate)
	}

	scaleCtx, stopScale := context.WithCancel(context.Background())
	monitor := scale.NewMonitor(source, logger)
	monitor.Start(scaleCtx)

	svcs.Weighing.OnTransactionOpened(func(t domain.Transaction) {
		logger.Info("Transaction opened", slog.String("transaction_id", t.TransactionID), slog.String("plate_number", t.PlateNumber))
	})
	svcs.Weighing.OnTransactionClosed(func(t domain.Transaction) {
		logger.Info("Transaction closed", slog.String("transaction_id", t.TransactionID), slog.String("plate_number", t.PlateNumber))
	})

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the console)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs, monitor)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Block until shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shut down", slog.String("error", err.Error()))
	}

	// Stop the scale source and join its goroutines before the pool closes.
	stopScale()
	monitor.Wait()
	logger.Info("Shutdown complete")
}

func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
