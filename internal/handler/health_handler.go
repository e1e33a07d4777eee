package handler

import (
	"context"
	"net/http"
	"time"

	"sweet-shop/internal/model"

	"github.com/rs/zerolog"
)

// pingTimeout bounds the database ping made by the health check.
const pingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness check.
type HealthHandler struct {
	db     Pinger
	logger zerolog.Logger
}

// NewHealthHandler creates a new health handler. A nil db skips the ping.
func NewHealthHandler(db Pinger, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger.With().Str("handler", "health").Logger(),
	}
}

// Check handles GET /health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			writeJSON(w, http.StatusServiceUnavailable, model.Response{
				Status:  model.StatusError,
				Message: "Database unavailable",
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, model.Response{
		Status:  "ok",
		Message: "Sweet Shop API is running",
	})
}

// NotFound answers requests that match no route.
func NotFound(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondError(w, model.ErrRouteNotFound, logger)
	}
}
