package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"route-insight-service/internal/adapters/cache"
	"route-insight-service/internal/api/handlers"
	"route-insight-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware
// of concrete adapters).
func NewRouter(geocoder ports.Geocoder, addressCache *cache.AddressCache, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))

	routeHandler := &handlers.RouteHandler{Geocoder: geocoder, Log: log}
	cacheHandler := &handlers.CacheHandler{Cache: addressCache, Log: log}

	r.Get("/health", handlers.Health)
	r.Post("/routes", routeHandler.Process)
	r.Post("/routes/compare", routeHandler.Compare)
	r.Get("/cache/export", cacheHandler.Export)

	return r
}
