// Package main is the entry point for the PromptPolish API server.
// It loads configuration, opens the configured history backend, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"promptpolish/internal/ai"
	"promptpolish/internal/cache"
	"promptpolish/internal/config"
	"promptpolish/internal/database"
	"promptpolish/internal/handlers"
	"promptpolish/internal/history"
	"promptpolish/internal/logger"
	"promptpolish/internal/middleware"
	"promptpolish/internal/optimizer"
	"promptpolish/internal/router"
	"promptpolish/internal/store"
)

func main() {
	// Load configuration from the environment and optional TOML file.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"history_backend", cfg.HistoryBackend,
		"model", cfg.OpenRouterModel,
	)
	if cfg.OpenRouterAPIKey == "" {
		slog.Warn("OPENROUTER_API_KEY not set, optimization requests will fail upstream")
	}

	ctx := context.Background()

	historyLog, closeHistory, err := openHistory(ctx, cfg)
	if err != nil {
		slog.Error("failed to open history backend", "backend", cfg.HistoryBackend, "error", err)
		os.Exit(1)
	}
	defer closeHistory()

	// Model backend with an explicit per-call deadline.
	client := ai.NewClient(ai.NewOpenRouter(cfg.Provider()), cfg.OptimizeTimeout)
	service := optimizer.New(client, historyLog)
	api := handlers.NewAPI(service, historyLog)

	opts := router.Options{AllowedOrigins: cfg.CORSAllowedOrigins}
	if cfg.RateLimitPerMinute > 0 {
		opts.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
		defer opts.RateLimiter.Stop()
	}
	r := router.New(api, opts)

	// WriteTimeout must outlast the backend deadline so a 504 can still be
	// written.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.OptimizeTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// In-flight optimizations may take up to the backend deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.OptimizeTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openHistory connects the configured history backend. The returned func
// releases its connections.
func openHistory(ctx context.Context, cfg *config.Config) (history.Log, func(), error) {
	switch cfg.HistoryBackend {
	case config.BackendPostgres:
		db, err := database.Connect(ctx, cfg.DSN())
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewHistoryStore(db), func() { db.Close() }, nil

	case config.BackendValkey:
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewHistoryLog(client), func() { client.Close() }, nil

	default:
		return history.NewMemoryLog(), func() {}, nil
	}
}
