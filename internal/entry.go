// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/mkraev/pantry/internal/api"
	"github.com/mkraev/pantry/internal/catalog"
	"github.com/mkraev/pantry/internal/credstore"
	"github.com/mkraev/pantry/internal/index"
	"github.com/mkraev/pantry/internal/inventory"
	"github.com/mkraev/pantry/internal/models"
	"github.com/mkraev/pantry/internal/pantryservice"
	"github.com/mkraev/pantry/internal/session"
	"github.com/mkraev/pantry/internal/sse"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("catalog_path", cfg.Catalog.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("credentials_path", cfg.Credentials.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Credential store.
	creds, err := credstore.NewFile(cfg.Credentials.Path)
	if err != nil {
		return fmt.Errorf("init credential store: %w", err)
	}

	// The catalog must load at startup; a server without recipes is
	// not worth starting.
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load recipe catalog: %w", err)
	}
	holder := catalog.NewHolder(cat)
	logger.Info("Recipe catalog loaded", slog.Int("recipes", cat.Len()))

	// SQLite recipe index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	if err := index.Sync(db, cat, logger); err != nil {
		return fmt.Errorf("initial index sync: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.AggregateThrottle)
	defer broker.Close()

	// Core state and service.
	registry := inventory.New()
	sess := session.New(creds.Exists())

	svc := pantryservice.New(creds, registry, holder, db, sess,
		func(kind string, category models.Category, name string) {
			broker.PublishItemEvent(kind, string(category), name)
		})

	apiRouter := api.NewRouter(svc, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start catalog watcher with SSE callback.
	if cfg.Catalog.Watch {
		g.Go(func() error {
			return index.Watch(gCtx, db, holder, cfg.Catalog.Path, logger, func() {
				broker.PublishCatalogReloaded(holder.Snapshot().Len())
			})
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
