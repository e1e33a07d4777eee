package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sweet-shop/internal/model"
	"sweet-shop/internal/token"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubVerifier returns a fixed result for every token.
type stubVerifier struct {
	payload *token.Payload
	err     error
}

func (s stubVerifier) Verify(ctx context.Context, raw string) (*token.Payload, error) {
	return s.payload, s.err
}

func issue(t *testing.T, svc *token.Service, role model.Role) string {
	t.Helper()
	raw, err := svc.Issue(context.Background(), token.Claims{UserID: uuid.New(), Email: "someone@example.com", Role: role})
	require.NoError(t, err)
	return raw
}

func responseMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func TestAuthenticate(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour, zerolog.Nop())
	otherKey := token.NewService("other-secret", time.Hour, zerolog.Nop())
	userToken := issue(t, svc, model.RoleUser)

	tests := []struct {
		name            string
		header          string
		expectedStatus  int
		expectedMessage string
		expectHandler   bool
	}{
		{
			name:           "Valid token",
			header:         "Bearer " + userToken,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:            "Missing header",
			header:          "",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "No token provided. Authorization header is required.",
		},
		{
			name:            "Wrong scheme",
			header:          "Basic dXNlcjpwYXNz",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: `Invalid token format. Use "Bearer <token>".`,
		},
		{
			name:            "Lowercase scheme",
			header:          "bearer " + userToken,
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: `Invalid token format. Use "Bearer <token>".`,
		},
		{
			name:            "Empty token",
			header:          "Bearer    ",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Token is required.",
		},
		{
			name:            "Garbage token",
			header:          "Bearer not.a.jwt",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid or expired token.",
		},
		{
			name:            "Token signed with another key",
			header:          "Bearer " + issue(t, otherKey, model.RoleAdmin),
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Invalid or expired token.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *token.Payload
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = token.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			Authenticate(svc, zerolog.Nop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, seen != nil)
			if tt.expectHandler {
				assert.Equal(t, "someone@example.com", seen.Email)
				assert.Equal(t, model.RoleUser, seen.Role)
			} else {
				assert.Equal(t, tt.expectedMessage, responseMessage(t, w))
			}
		})
	}
}

func TestAuthenticate_ConfigurationError(t *testing.T) {
	verifier := stubVerifier{err: fmt.Errorf("verify: %w", token.ErrConfiguration)}
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()

	Authenticate(verifier, zerolog.Nop())(next).ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token.", responseMessage(t, w))
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name            string
		payload         *token.Payload
		expectedStatus  int
		expectedMessage string
	}{
		{
			name:           "Admin passes",
			payload:        &token.Payload{UserID: uuid.New(), Role: model.RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:            "User is forbidden",
			payload:         &token.Payload{UserID: uuid.New(), Role: model.RoleUser},
			expectedStatus:  http.StatusForbidden,
			expectedMessage: "Access denied. Admin privileges required.",
		},
		{
			name:            "No identity",
			expectedStatus:  http.StatusUnauthorized,
			expectedMessage: "Authentication required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodDelete, "/api/sweets/1", nil)
			if tt.payload != nil {
				req = req.WithContext(token.WithPayload(req.Context(), tt.payload))
			}
			w := httptest.NewRecorder()

			RequireAdmin(zerolog.Nop())(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, responseMessage(t, w))
			}
		})
	}
}

func TestAuthenticateThenRequireAdmin(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour, zerolog.Nop())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	chain := Authenticate(svc, zerolog.Nop())(RequireAdmin(zerolog.Nop())(next))

	for role, expected := range map[model.Role]int{
		model.RoleAdmin: http.StatusOK,
		model.RoleUser:  http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/sweets/1/restock", nil)
		req.Header.Set("Authorization", "Bearer "+issue(t, svc, role))
		w := httptest.NewRecorder()

		chain.ServeHTTP(w, req)

		assert.Equal(t, expected, w.Code, "role %s", role)
	}
}
