// Bookmarkd - personal bookmark manager with token-based authentication.
//
// This is the main entry point for the Bookmarkd API server. It wires
// together the infrastructure (config, logging, SQLite), the auth and
// bookmark services, and the HTTP API, then waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bookmarkd/bookmarkd/migrations"

	"github.com/bookmarkd/bookmarkd/internal/api"
	"github.com/bookmarkd/bookmarkd/internal/audit"
	"github.com/bookmarkd/bookmarkd/internal/auth"
	"github.com/bookmarkd/bookmarkd/internal/bookmark"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/config"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/database"
	"github.com/bookmarkd/bookmarkd/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Bookmarkd",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Wire repositories and services
	userRepo := auth.NewUserRepository(db.DB)
	issuer := auth.NewTokenIssuer(auth.TokenConfig{
		AccessSecret:    cfg.Security.JWT.AccessSecret,
		RefreshSecret:   cfg.Security.JWT.RefreshSecret,
		AccessTokenTTL:  time.Duration(cfg.Security.JWT.AccessTokenTTL) * time.Minute,
		RefreshTokenTTL: time.Duration(cfg.Security.JWT.RefreshTokenTTL) * time.Minute,
	})
	sessions := auth.NewService(userRepo, issuer)
	bookmarks := bookmark.NewService(bookmark.NewRepository(db.DB))
	auditRepo := audit.NewSQLiteRepository(db.DB)

	// Start the HTTP API server
	server, err := api.New(api.Deps{
		Config:    cfg.API,
		Logger:    log,
		Sessions:  sessions,
		Issuer:    issuer,
		UserRepo:  userRepo,
		Bookmarks: bookmarks,
		AuditRepo: auditRepo,
		DB:        db,
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"host", cfg.API.Host,
		"port", cfg.API.Port,
	)

	// Verify the database connection is healthy before declaring ready
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server (graceful drain)
	// 2. Database

	log.Info("Bookmarkd stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BOOKMARKD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BOOKMARKD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
