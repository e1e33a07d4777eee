package router

import (
	"net/http"

	"sweet-shop/internal/handler"
	"sweet-shop/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Sweets    *handler.SweetHandler
	Inventory *handler.InventoryHandler
	Health    *handler.HealthHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	h Handlers,
	verifier middleware.TokenVerifier,
	metricsEnabled bool,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	authenticated := middleware.Authenticate(verifier, logger)
	adminOnly := middleware.RequireAdmin(logger)

	user := func(fn http.HandlerFunc) http.Handler {
		return authenticated(fn)
	}
	admin := func(fn http.HandlerFunc) http.Handler {
		return authenticated(adminOnly(fn))
	}

	// Public endpoints
	mux.HandleFunc("GET /health", h.Health.Check)
	if metricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)

	// Catalogue
	mux.Handle("GET /api/sweets", user(h.Sweets.List))
	mux.Handle("POST /api/sweets", user(h.Sweets.Create))
	mux.Handle("GET /api/sweets/search", user(h.Sweets.Search))
	mux.Handle("GET /api/sweets/{id}", user(h.Sweets.Get))
	mux.Handle("PUT /api/sweets/{id}", user(h.Sweets.Update))
	mux.Handle("DELETE /api/sweets/{id}", admin(h.Sweets.Delete))

	// Inventory
	mux.Handle("POST /api/sweets/{id}/purchase", user(h.Inventory.Purchase))
	mux.Handle("POST /api/sweets/{id}/restock", admin(h.Inventory.Restock))
	mux.Handle("GET /api/sweets/{id}/movements", admin(h.Inventory.Movements))

	mux.Handle("/", handler.NotFound(logger))

	// Apply middleware in order: Recovery -> Logging -> CORS -> Metrics
	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
