package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-audio/internal/metrics"
	"github.com/tendant/simple-audio/pkg/simpleaudio"
	"github.com/tendant/simple-audio/pkg/simpleaudio/api"
	"github.com/tendant/simple-audio/pkg/simpleaudio/config"
)

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	serverConfig, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(serverConfig))

	ctx := context.Background()
	svc, closeStores, err := buildService(ctx, serverConfig)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := NewHTTPServer(svc, serverConfig)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: server.Routes(),
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Simple Audio server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageType,
			"bucket", serverConfig.S3.Bucket)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
	}
	if err := closeStores(shutdownCtx); err != nil {
		slog.Error("Failed to close metadata store", "err", err)
	}

	slog.Info("Server exiting")
}

func newLogger(cfg *config.ServerConfig) *slog.Logger {
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// buildService wires the configured stores behind metrics instrumentation
func buildService(ctx context.Context, cfg *config.ServerConfig) (simpleaudio.Service, config.CloseFunc, error) {
	return cfg.BuildService(ctx,
		config.WithRepositoryWrapper(metrics.InstrumentRepository),
		config.WithBlobStoreWrapper(metrics.InstrumentBlobStore),
		config.WithServiceOptions(simpleaudio.WithHooks(metrics.Hooks())),
	)
}

// HTTPServer wraps the simple-audio service for HTTP access
type HTTPServer struct {
	service simpleaudio.Service
	config  *config.ServerConfig
}

// NewHTTPServer creates a new HTTP server wrapper
func NewHTTPServer(service simpleaudio.Service, serverConfig *config.ServerConfig) *HTTPServer {
	return &HTTPServer{
		service: service,
		config:  serverConfig,
	}
}

// Routes sets up the HTTP routes
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", metrics.Handler())

	songHandler := api.NewSongHandler(s.service, s.config.MaxUploadBytes())
	r.Mount("/", songHandler.Routes())

	return r
}
