package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sweet-shop/internal/handler"
	"sweet-shop/internal/model"
	"sweet-shop/internal/token"

	"github.com/rs/zerolog"
)

const bearerPrefix = "Bearer "

// TokenVerifier checks a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*token.Payload, error)
}

// Authenticate requires a valid bearer token and attaches its payload to the
// request context.
func Authenticate(verifier TokenVerifier, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "authenticate").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				handler.RespondError(w, model.ErrMissingCredential, logger)
				return
			}

			if !strings.HasPrefix(header, bearerPrefix) {
				handler.RespondError(w, model.ErrMalformedCredential, logger)
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			if raw == "" {
				handler.RespondError(w, model.ErrEmptyToken, logger)
				return
			}

			payload, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				if errors.Is(err, token.ErrConfiguration) {
					logger.Error().Err(err).Msg("token verification is misconfigured")
				} else {
					logger.Debug().Err(err).Str("path", r.URL.Path).Msg("token rejected")
				}
				handler.RespondError(w, model.ErrInvalidToken, logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(token.WithPayload(r.Context(), payload)))
		})
	}
}

// RequireAdmin only lets requests carrying an admin payload through. It must
// run after Authenticate.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "require_admin").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, ok := token.FromContext(r.Context())
			if !ok {
				handler.RespondError(w, model.ErrUnauthenticated, logger)
				return
			}

			if !payload.IsAdmin() {
				logger.Warn().
					Str("user_id", payload.UserID.String()).
					Str("path", r.URL.Path).
					Msg("non-admin denied")
				handler.RespondError(w, model.ErrForbidden, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
