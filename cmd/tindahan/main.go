package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/tindahan/tindahan/internal/core/services"
	"github.com/tindahan/tindahan/internal/handlers"
	"github.com/tindahan/tindahan/internal/middleware"
	"github.com/tindahan/tindahan/internal/platform/config"
	"github.com/tindahan/tindahan/internal/repositories/database/sqlite"
	remotepgsql "github.com/tindahan/tindahan/internal/repositories/remote/pgsql"
	"github.com/tindahan/tindahan/internal/repositories/remote/oauth"
	"github.com/tindahan/tindahan/pkg/database"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

// @title Tindahan API
// @version 1.0
// @description Offline-first point of sale backend for sari-sari stores.

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

	ctx := context.Background()

	// Open the local embedded store and bring its schema up to date.
	localDB, err := database.NewSQLiteDB(ctx, cfg.LocalDBPath)
	if err != nil {
		logger.Error("Failed to open local database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.CloseSQLiteDB(localDB)

	if err := sqlite.Migrate(ctx, localDB); err != nil {
		logger.Error("Failed to migrate local database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Local database ready", slog.String("path", cfg.LocalDBPath))

	// The remote store is optional. Without it the app still sells, tracks
	// stock, and records utang; sync and online login are unavailable.
	remote := portsrepo.RemoteStore(remotepgsql.NewDisabledRemoteStore())
	if cfg.RemoteDatabaseURL != "" {
		pool, err := database.NewPgxPool(ctx, cfg.RemoteDatabaseURL)
		if err != nil {
			logger.Error("Failed to connect to remote database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(pool)

		if err := runRemoteMigrations(cfg.RemoteDatabaseURL, logger); err != nil {
			logger.Error("Failed to migrate remote database", slog.String("error", err.Error()))
			os.Exit(1)
		}

		remote = remotepgsql.NewPgxRemoteStore(pool)
		logger.Info("Remote store connected")
	}

	repos := sqlite.NewRepositoryProvider(localDB)
	authProvider := oauth.NewOAuthAuthProvider(cfg.OAuthClientID, cfg.OAuthClientSecret, cfg.OAuthTokenURL)
	serviceContainer := services.NewServiceContainer(cfg, repos, remote, authProvider)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS for the local UI)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runRemoteMigrations applies the remote schema migrations. Uses a separate
// database/sql connection via the pgx stdlib driver to stay compatible with
// the main pool.
func runRemoteMigrations(databaseURL string, logger *slog.Logger) error {
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

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new remote migrations to apply.")
	} else {
		logger.Info("Remote migrations applied successfully.")
	}
	return nil
}
