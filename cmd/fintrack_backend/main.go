package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/SscSPs/fintrack_backend/internal/clients/twelvedata"
	"github.com/SscSPs/fintrack_backend/internal/core/services"
	"github.com/SscSPs/fintrack_backend/internal/handlers"
	"github.com/SscSPs/fintrack_backend/internal/middleware"
	"github.com/SscSPs/fintrack_backend/internal/platform/config"
	"github.com/SscSPs/fintrack_backend/internal/repositories/database/pgsql"
	"github.com/SscSPs/fintrack_backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Fintrack Backend API
// @version 1.0
// @description Exchange rate backfill pipeline and reporting for the fintrack dashboard.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
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
	// Defer closing the connection pool
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the dashboard frontend)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Wire repositories, the rate provider client and the service layer
	repos := pgsql.NewRepositoryProvider(dbPool)
	provider := twelvedata.NewClient(twelvedata.Config{
		BaseURL:     cfg.TwelveDataBaseURL,
		APIKey:      cfg.TwelveDataAPIKey,
		BaseDelay:   cfg.ProviderBackoffBase,
		MaxAttempts: cfg.ProviderMaxAttempts,
	}, nil)
	serviceContainer := services.NewServiceContainer(cfg, repos, provider)

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection over the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
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
