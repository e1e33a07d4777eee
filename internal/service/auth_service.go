package service

import (
	"context"
	"errors"
	"fmt"

	"sweet-shop/internal/metrics"
	"sweet-shop/internal/model"
	"sweet-shop/internal/ratelimit"
	"sweet-shop/internal/repository"
	"sweet-shop/internal/token"
	"sweet-shop/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	opRegister = "register"
	opLogin    = "login"
)

// authService implements AuthService.
type authService struct {
	userRepo   repository.UserRepository
	issuer     TokenIssuer
	limiter    ratelimit.Limiter
	validator  *validation.Validator
	bcryptCost int
	dummyHash  []byte
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service. Passwords are hashed with
// bcryptCost and login attempts are counted by limiter.
func NewAuthService(
	userRepo repository.UserRepository,
	issuer TokenIssuer,
	limiter ratelimit.Limiter,
	bcryptCost int,
	logger zerolog.Logger,
) AuthService {
	logger = logger.With().Str("service", "auth").Logger()

	// Compared against when the email is unknown so both paths pay for one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("sweet-shop-dummy-password"), bcryptCost)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to prepare dummy password hash")
	}

	return &authService{
		userRepo:   userRepo,
		issuer:     issuer,
		limiter:    limiter,
		validator:  validation.New(),
		bcryptCost: bcryptCost,
		dummyHash:  dummy,
		logger:     logger,
	}
}

// Register creates a user account and returns it with a fresh token.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.ErrInvalidBody
	}

	email := normalizeEmail(req.Email)
	if err := validateRegister(s.validator, email, req.Password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultInvalid).Inc()
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultError).Inc()
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if existing != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultDuplicate).Inc()
		return nil, model.ErrDuplicateEmail
	}

	user, err := s.createUser(ctx, email, req.Password, model.RoleUser)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultDuplicate).Inc()
			return nil, err
		}
		metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultError).Inc()
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	resp, err := s.respond(ctx, user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultError).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(opRegister, metrics.ResultSuccess).Inc()
	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")

	return resp, nil
}

// Login checks credentials and returns the user with a fresh token. Unknown
// emails and wrong passwords produce the same error. Attempts are throttled
// per client and email.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	if req == nil {
		return nil, model.ErrInvalidBody
	}

	email := normalizeEmail(req.Email)
	if err := validateLogin(s.validator, email, req.Password); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultInvalid).Inc()
		return nil, err
	}

	key := ratelimit.Key(ctx, email)
	decision, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login rate limit unavailable")
	} else if !decision.Allowed {
		metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultThrottled).Inc()
		s.logger.Warn().Dur("retry_after", decision.RetryAfter).Msg("login throttled")
		return nil, model.ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultError).Inc()
		s.logger.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(req.Password)); err != nil || user == nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultRejected).Inc()
		s.logger.Debug().Msg("login rejected")
		return nil, model.ErrInvalidLogin
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to reset login attempts")
	}

	resp, err := s.respond(ctx, user)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultError).Inc()
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues(opLogin, metrics.ResultSuccess).Inc()
	s.logger.Debug().Str("user_id", user.ID.String()).Msg("user logged in")

	return resp, nil
}

// EnsureAdmin creates an admin account for email, or promotes the existing
// account with that email. It does nothing when either argument is empty.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	if err := validateRegister(s.validator, email, password); err != nil {
		return fmt.Errorf("invalid admin account: %w", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	if existing != nil {
		if existing.Role == model.RoleAdmin {
			return nil
		}
		if err := s.userRepo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			return fmt.Errorf("failed to promote admin account: %w", err)
		}
		s.logger.Info().Str("user_id", existing.ID.String()).Msg("existing user promoted to admin")
		return nil
	}

	user, err := s.createUser(ctx, email, password, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("admin account created")
	return nil
}

func (s *authService) createUser(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, model.ErrDuplicateEmail) {
			s.logger.Error().Err(err).Msg("failed to create user")
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) respond(ctx context.Context, user *model.User) (*model.AuthResponse, error) {
	signed, err := s.issuer.Issue(ctx, token.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &model.AuthResponse{User: user, Token: signed}, nil
}
