package handler

import (
	"net"
	"net/http"

	"sweet-shop/internal/model"
	"sweet-shop/internal/ratelimit"
	"sweet-shop/internal/service"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration and login requests.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(w, err, h.logger)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		RespondError(w, err, h.logger)
		return
	}

	ctx := ratelimit.WithClient(r.Context(), clientAddr(r))
	resp, err := h.service.Login(ctx, &req)
	if err != nil {
		RespondError(w, err, h.logger)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", resp)
}

// clientAddr returns the host part of the peer address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
