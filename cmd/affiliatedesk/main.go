// Package main is the entry point for the affiliate desk server.
// It loads configuration, opens the store backend, sets up routing, and
// starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"affiliatedesk/internal/ai"
	"affiliatedesk/internal/backend"
	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/config"
	"affiliatedesk/internal/database"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/handlers"
	"affiliatedesk/internal/middleware"
	"affiliatedesk/internal/router"
	"affiliatedesk/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	ctx := context.Background()

	be, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store backend", "error", err)
		os.Exit(1)
	}
	defer be.Close()

	st := store.New(be.Adapter)
	if err := st.Load(ctx); err != nil {
		slog.Error("failed to load records", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if anything was persisted).
	if cfg.SeedData {
		if err := database.Seed(ctx, st); err != nil {
			slog.Error("failed to seed store", "error", err)
			os.Exit(1)
		}
	}

	// The browser opens the links; the server only reports them.
	// The browser opens the links; pacing reaches it as per-link offsets.
	session := dispatch.NewSession(nil, be.SentSet, dispatch.Pacing{
		BatchSize: cfg.PacingBatchSize,
		Delay:     cfg.PacingDelay,
	})

	catalog, err := compose.DefaultCatalog()
	if err != nil {
		slog.Error("failed to load broadcast templates", "error", err)
		os.Exit(1)
	}

	configs := make(map[string]ai.ProviderConfig, len(cfg.AIProviders))
	for name, p := range cfg.AIProviders {
		configs[name] = ai.ProviderConfig{APIKey: p.APIKey, Model: p.Model, BaseURL: p.BaseURL, JSON: true}
	}
	aiRegistry := ai.NewRegistry(cfg.AIProvider, configs)

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	if !aiRegistry.HasProvider(cfg.AIProvider) {
		slog.Warn("active ai provider has no api key, commands disabled until another is selected", "provider", cfg.AIProvider)
	}

	commandLimiter := middleware.NewRateLimiter(cfg.CommandRateLimit, time.Minute)
	defer commandLimiter.Stop()

	api := handlers.NewAPI(st, session, catalog, aiRegistry)
	r := router.New(api, commandLimiter)

	// WriteTimeout must accommodate the command route waiting on the LLM.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	// Rewrite every collection so nothing swallowed earlier is lost.
	if err := st.Flush(shutdownCtx); err != nil {
		slog.Warn("final flush incomplete", "error", err)
	}

	slog.Info("server stopped gracefully")
}
