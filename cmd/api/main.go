package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sweet-shop/internal/catalog"
	"sweet-shop/internal/config"
	"sweet-shop/internal/database"
	"sweet-shop/internal/handler"
	"sweet-shop/internal/ratelimit"
	"sweet-shop/internal/repository"
	"sweet-shop/internal/router"
	"sweet-shop/internal/service"
	"sweet-shop/internal/token"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting sweet-shop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool, logger)
	sweetRepo := repository.NewSweetRepository(pool, logger)
	movementRepo := repository.NewMovementRepository(pool, logger)

	// Initialize token service and login limiter
	tokens := token.NewService(cfg.JWT.Secret, cfg.JWT.TokenTTL(), logger)

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	// Initialize services
	authService := service.NewAuthService(userRepo, tokens, limiter, cfg.Auth.BcryptRounds, logger)
	sweetService := service.NewSweetService(sweetRepo, logger)
	inventoryService := service.NewInventoryService(sweetRepo, movementRepo, logger)

	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// Seed an empty catalogue from S3 or the local file system
	seeder := catalog.NewSeeder(newCatalogLoader(ctx, cfg, logger), sweetService, logger)
	if _, err := seeder.Seed(ctx, cfg.Catalog.SeedFile); err != nil {
		return fmt.Errorf("failed to seed catalogue: %w", err)
	}

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, logger),
		Sweets:    handler.NewSweetHandler(sweetService, logger),
		Inventory: handler.NewInventoryHandler(inventoryService, logger),
		Health:    handler.NewHealthHandler(pool, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, cfg.Metrics.Enabled, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newLimiter returns the Redis login limiter when Redis is configured and
// reachable, and a limiter that allows everything otherwise.
func newLimiter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (ratelimit.Limiter, func()) {
	if !cfg.Redis.Enabled() {
		logger.Info().Msg("login rate limiting disabled (REDIS_ADDR not set)")
		return ratelimit.NewNoopLimiter(), func() {}
	}

	client, err := ratelimit.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("addr", cfg.Redis.Addr).
			Msg("failed to connect to Redis, login rate limiting disabled")
		return ratelimit.NewNoopLimiter(), func() {}
	}

	logger.Info().
		Str("addr", cfg.Redis.Addr).
		Int("max_attempts", cfg.RateLimit.LoginMaxAttempts).
		Dur("window", cfg.RateLimit.LoginWindow()).
		Msg("login rate limiting enabled")

	limiter := ratelimit.NewRedisLimiter(client, ratelimit.Config{
		MaxAttempts: cfg.RateLimit.LoginMaxAttempts,
		Window:      cfg.RateLimit.LoginWindow(),
	}, logger)

	return limiter, func() {
		if err := client.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close Redis client")
		}
	}
}

// newCatalogLoader builds the seed loader with S3 and local fallback.
func newCatalogLoader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) catalog.Loader {
	fileLoader := catalog.NewFileLoader(logger)

	var s3Loader catalog.Loader
	if cfg.S3.Enabled {
		loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	} else {
		logger.Info().Msg("using local file system for catalogue files (S3 disabled)")
	}

	return catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)
}
