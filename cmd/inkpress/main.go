// Package main is the entry point for the inkpress server.
// It loads configuration, connects to Valkey, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/cache"
	"inkpress/internal/config"
	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/posts"
	"inkpress/internal/query"
	"inkpress/internal/render"
	"inkpress/internal/router"
	"inkpress/internal/session"
	"inkpress/internal/store"
	"inkpress/internal/taxonomy"
)

// Failed-login limiter: 5 attempts per 15 minutes per client IP.
const (
	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

func main() {
	// Structured logger — outputs text with debug level enabled.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"data_dir", cfg.DataDir,
	)

	// Flat-file stores for posts and taxonomy.
	postStore := store.NewPostStore(cfg.DataDir)
	taxonomyStore := store.NewTaxonomyStore(cfg.DataDir)

	// Seed development data (no-op if data files already exist).
	if cfg.IsDev() {
		if err := store.Seed(cfg.DataDir, postStore, taxonomyStore); err != nil {
			slog.Error("failed to seed data", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions + page cache).
	valkeyClient, err := cache.Connect(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Full-page HTML cache for the public site.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// HTML template renderer for public and admin pages.
	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Domain services.
	engine := query.NewEngine(postStore, taxonomyStore)
	lifecycle := posts.NewManager(postStore, taxonomyStore)
	taxonomyManager := taxonomy.NewManager(taxonomyStore, postStore)

	// Failed-login rate limiter.
	loginLimiter := middleware.NewLoginLimiter(loginAttemptLimit, loginAttemptWindow)
	defer loginLimiter.Stop()

	// Handler groups.
	publicHandlers := handlers.NewPublic(engine, renderer, pageCache)
	authHandlers := handlers.NewAuth(renderer, sessionStore, cfg, loginLimiter)
	adminHandlers := handlers.NewAdmin(renderer, engine, lifecycle, taxonomyStore, pageCache, cfg)
	taxonomyHandlers := handlers.NewTaxonomy(renderer, taxonomyManager, taxonomyStore, pageCache)

	// Chi router with all middleware and routes.
	r := router.New(sessionStore, publicHandlers, authHandlers, adminHandlers, taxonomyHandlers)

	// HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
