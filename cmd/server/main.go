package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/property-assistant/internal/api"
	"github.com/Rrens/property-assistant/internal/catalog"
	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/logging"
	"github.com/Rrens/property-assistant/internal/notify"
	"github.com/Rrens/property-assistant/internal/reply"
	"github.com/Rrens/property-assistant/internal/service"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting property assistant server")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage")
	}
	defer b.Close()

	cat, err := catalog.Load(ctx, b.source)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load property catalog")
	}
	log.Info().Int("properties", cat.Len()).Int("agents", len(cat.Agents())).Msg("Catalog loaded")
	go cat.Run(ctx, cfg.Assistant.CatalogRefresh)

	dispatcher := notify.NewDispatcher(cat, cat, b.inbox, cfg.Assistant.NotificationQueue)

	registry := service.NewRegistry(cfg.Assistant.SessionTTL)
	go registry.Run(ctx, cfg.Assistant.SweepInterval)

	assistant := service.NewAssistantService(cfg, registry, cat, dispatcher, b.messages, b.sessions, reply.RandomPicker{})

	deps := api.Dependencies{
		Assistant: assistant,
		Inbox:     service.NewInboxService(b.inbox, cat),
		Catalog:   cat,
		Ready:     b.ready,
	}
	if b.limiter != nil {
		deps.Limiter = b.limiter
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop background loops, then deliver queued notifications
	stop()
	dispatcher.Close()

	log.Info().Msg("Server stopped")
}
