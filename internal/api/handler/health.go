package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/property-assistant/internal/api/response"
	"github.com/Rrens/property-assistant/internal/catalog"
)

// Pinger is a dependency the readiness check verifies
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status: the catalog must be loaded and every
// dependency reachable
func ReadyCheck(cat *catalog.Catalog, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cat.Len() == 0 {
			response.Unavailable(w, "catalog not loaded")
			return
		}

		for name, dep := range deps {
			if err := dep.Ping(r.Context()); err != nil {
				response.Unavailable(w, name+" not ready")
				return
			}
		}

		response.OK(w, map[string]any{
			"status":     "ready",
			"properties": cat.Len(),
			"loaded_at":  cat.LoadedAt(),
		})
	}
}
