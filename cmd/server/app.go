package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lapakly/lapak-api/internal/config"
	"github.com/lapakly/lapak-api/internal/platform/gemini"
	"github.com/lapakly/lapak-api/internal/platform/postgres"
	"github.com/lapakly/lapak-api/internal/quota"
	"github.com/lapakly/lapak-api/internal/service"
	"github.com/lapakly/lapak-api/internal/service/auth"
	"github.com/lapakly/lapak-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore    store.UserStore
	productStore store.ProductStore
	contentStore store.ContentStore

	// Services
	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	quotaLedger      *quota.Ledger
	generator        *gemini.Generator
	contentService   *service.ContentService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordHasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.productStore = postgres.NewPostgresProductStore(db, logger)
	app.contentStore = postgres.NewPostgresContentStore(db, logger)

	app.quotaLedger = quota.NewLedger(
		cfg.Quota.Budget,
		time.Duration(cfg.Quota.WindowHours)*time.Hour,
		logger,
	)
	logger.Info("Quota ledger initialized",
		"budget", cfg.Quota.Budget,
		"window_hours", cfg.Quota.WindowHours)

	app.generator, err = gemini.NewGenerator(
		ctx,
		logger.With("component", "llm_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}
	logger.Info("LLM generator initialized", "model", cfg.LLM.ModelName)

	app.contentService = service.NewContentService(
		app.quotaLedger,
		app.generator,
		app.contentStore,
		app.productStore,
		cfg.LLM.ModelName,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
