// Package ratelimit throttles repeated attempts against a key, such as
// logins for one email address from one client, over a fixed time window.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultPrefix      = "login:"
	defaultDialTimeout = 5 * time.Second
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts attempts per key.
type Limiter interface {
	// Allow records an attempt for key and reports whether it may proceed.
	Allow(ctx context.Context, key string) (Decision, error)

	// Reset forgets every attempt recorded for key.
	Reset(ctx context.Context, key string) error
}

type clientKey struct{}

// WithClient returns a copy of ctx carrying the address of the client making
// the attempt.
func WithClient(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientKey{}, addr)
}

// ClientFrom returns the client address stored by WithClient.
func ClientFrom(ctx context.Context) (string, bool) {
	addr, ok := ctx.Value(clientKey{}).(string)
	return addr, ok && addr != ""
}

// Key scopes subject to the client carried by ctx, so failures from one
// client never throttle another. Without a client the subject is used alone.
func Key(ctx context.Context, subject string) string {
	if addr, ok := ClientFrom(ctx); ok {
		return addr + "|" + subject
	}
	return subject
}

// Config holds fixed window parameters.
type Config struct {
	MaxAttempts int
	Window      time.Duration
	Prefix      string
}

// Connect creates a Redis client and verifies connectivity with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// RedisLimiter implements Limiter as a fixed window counter in Redis.
// The first attempt in a window creates the counter and sets its expiry.
type RedisLimiter struct {
	client redis.Cmdable
	cfg    Config
	logger zerolog.Logger
}

// NewRedisLimiter creates a Redis backed limiter.
func NewRedisLimiter(client redis.Cmdable, cfg Config, logger zerolog.Logger) *RedisLimiter {
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	return &RedisLimiter{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Allow increments the counter for key. Redis failures are logged and the
// attempt is allowed.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.cfg.Prefix + key

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.cfg.Window)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		l.logger.Warn().Err(err).Str("key", k).Msg("rate limit check failed, allowing attempt")
		return Decision{Allowed: true, Remaining: l.cfg.MaxAttempts}, nil
	}

	count := int(incr.Val())
	if count > l.cfg.MaxAttempts {
		retry := ttl.Val()
		if retry < 0 {
			retry = l.cfg.Window
		}
		l.logger.Debug().Str("key", k).Int("attempts", count).Dur("retry_after", retry).Msg("attempt throttled")
		return Decision{Allowed: false, RetryAfter: retry}, nil
	}

	return Decision{Allowed: true, Remaining: l.cfg.MaxAttempts - count}, nil
}

// Reset deletes the counter for key.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.cfg.Prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}

type noopLimiter struct{}

// NewNoopLimiter returns a Limiter that allows every attempt.
func NewNoopLimiter() Limiter {
	return noopLimiter{}
}

func (noopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}

func (noopLimiter) Reset(context.Context, string) error {
	return nil
}
