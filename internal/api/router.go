package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rrens/property-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/property-assistant/internal/api/middleware"
	"github.com/Rrens/property-assistant/internal/catalog"
	"github.com/Rrens/property-assistant/internal/config"
	"github.com/Rrens/property-assistant/internal/service"
)

// Dependencies are the services the router exposes
type Dependencies struct {
	Assistant *service.AssistantService
	Inbox     *service.InboxService
	Catalog   *catalog.Catalog
	// Limiter is optional; chat messages are not rate limited without it
	Limiter customMiddleware.Limiter
	// Ready lists the backends the readiness check pings, by name
	Ready map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	chatHandler := handler.NewChatHandler(deps.Assistant)
	inboxHandler := handler.NewInboxHandler(deps.Inbox)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Catalog, deps.Ready))

		r.Route("/chat/sessions", func(r chi.Router) {
			r.Post("/", chatHandler.CreateSession)

			r.Route("/{sessionID}/messages", func(r chi.Router) {
				r.Get("/", chatHandler.Transcript)
				r.Group(func(r chi.Router) {
					if deps.Limiter != nil {
						r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
					}
					r.Post("/", chatHandler.SendMessage)
				})
			})
		})

		r.Route("/agents/{agentID}/notifications", func(r chi.Router) {
			r.Get("/", inboxHandler.List)
			r.Post("/{notificationID}/read", inboxHandler.MarkRead)
		})
	})

	return r
}
