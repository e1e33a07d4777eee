// Package token issues and verifies the signed, time-limited identity tokens
// presented as bearer credentials, and carries the verified payload through a
// request's context.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sweet-shop/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrConfiguration is returned when no signing secret is configured.
	ErrConfiguration = errors.New("token signing secret is not configured")

	// ErrInvalidToken is returned for malformed, tampered or expired tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the identity asserted by a token.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   model.Role
}

// Payload is a verified token's content.
type Payload struct {
	UserID    uuid.UUID  `json:"userId"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// IsAdmin reports whether the payload carries the admin role.
func (p *Payload) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// jwtClaims is the wire form of a token.
type jwtClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and verifies HS256 tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a token service. An empty secret is accepted here and
// reported as ErrConfiguration by Issue and Verify.
func NewService(secret string, ttl time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "token").Logger(),
	}
}

// Issue signs a token for c that expires ttl after issuance.
func (s *Service) Issue(ctx context.Context, c Claims) (string, error) {
	if len(s.secret) == 0 {
		s.logger.Error().Msg("cannot issue token without a signing secret")
		return "", ErrConfiguration
	}

	issuedAt := s.now()
	claims := jwtClaims{
		UserID: c.UserID.String(),
		Email:  c.Email,
		Role:   string(c.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   c.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of raw and returns its payload.
func (s *Service) Verify(ctx context.Context, raw string) (*Payload, error) {
	if len(s.secret) == 0 {
		return nil, ErrConfiguration
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed user id claim", ErrInvalidToken)
	}

	role := model.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return &Payload{
		UserID:    userID,
		Email:     claims.Email,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

type contextKey struct{}

// WithPayload returns a copy of ctx carrying p.
func WithPayload(ctx context.Context, p *Payload) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the payload attached by WithPayload, if any.
func FromContext(ctx context.Context) (*Payload, bool) {
	p, ok := ctx.Value(contextKey{}).(*Payload)
	return p, ok && p != nil
}
