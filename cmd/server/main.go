// August Revolution 1945 — educational site with an embedded history assistant.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/tvhoang/august-revolution/internal/api"
	"github.com/tvhoang/august-revolution/internal/assistant"
	"github.com/tvhoang/august-revolution/internal/config"
	"github.com/tvhoang/august-revolution/internal/gemini"
	"github.com/tvhoang/august-revolution/internal/identity"
	"github.com/tvhoang/august-revolution/internal/knowledge"
	"github.com/tvhoang/august-revolution/internal/middleware"
	"github.com/tvhoang/august-revolution/internal/relay"
	"github.com/tvhoang/august-revolution/internal/store"
	"github.com/tvhoang/august-revolution/web"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	kb, err := knowledge.Load()
	if err != nil {
		slog.Error("Failed to load knowledge base", "error", err)
		os.Exit(1)
	}
	slog.Info("Knowledge base loaded", "entries", len(kb))

	// Initialize transports. The direct client is used when a credential
	// resolves; otherwise queries go through the same-origin relay.
	directClient := gemini.NewClient(cfg.Gemini.BaseURL)
	proxyClient := gemini.NewProxyClient(cfg.Gemini.RelayURL)

	orch := assistant.New(assistant.Options{
		Knowledge: kb,
		Repo:      repo,
		Direct:    directClient.Generate,
		Proxied:   proxyClient.Generate,
		Env:       config.StaticSource(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.APIVersion),
		Metadata:  web.MetaSource(),
	})

	// Initialize handlers.
	assistantHandler := assistant.NewHandler(orch, repo)
	relayHandler := relay.NewHandler(directClient, cfg.Gemini.APIKey)
	healthHandler := api.NewHealthHandler(repo, len(kb))

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.CORS([]string{"*"}))

	// The relay injects the server credential itself; health stays public.
	healthHandler.RegisterHealth(r)
	relayHandler.RegisterRoutes(r)

	// Assistant routes require the anonymous visitor identity.
	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(repo, cfg.IsDevelopment()))
		assistantHandler.RegisterRoutes(r)
	})

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
