// Package cache provides an optional Redis cache for the computed
// leaderboard. Every rating write bumps a version counter; cached values are
// stored under the version they were computed at, so a write makes every
// older value unreachable at once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL     = 30 * time.Second
	defaultPrefix  = "pizzarank:leaderboard:"
	connectTimeout = 3 * time.Second
)

// Leaderboard caches the computed leaderboard.
type Leaderboard interface {
	// Get returns the cached value for the current version, or nil on a miss.
	// The version is returned either way and must be passed to Set.
	Get(ctx context.Context) (*model.Leaderboard, int64, error)
	// Set stores lb as computed at version.
	Set(ctx context.Context, version int64, lb model.Leaderboard) error
	// Invalidate makes every cached value stale. Call it after each write.
	Invalidate(ctx context.Context) error
	Enabled() bool
	Close() error
}

// Noop is used when caching is disabled.
type Noop struct{}

func (Noop) Get(context.Context) (*model.Leaderboard, int64, error) { return nil, 0, nil }
func (Noop) Set(context.Context, int64, model.Leaderboard) error    { return nil }
func (Noop) Invalidate(context.Context) error                       { return nil }
func (Noop) Enabled() bool                                          { return false }
func (Noop) Close() error                                           { return nil }

// Redis implements Leaderboard on a go-redis client.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// Ensure implementations satisfy Leaderboard.
var (
	_ Leaderboard = Noop{}
	_ Leaderboard = (*Redis)(nil)
)

// Option applies a configuration option to the Redis cache.
type Option func(*Redis)

// WithTTL sets how long a cached leaderboard lives.
func WithTTL(ttl time.Duration) Option {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client, opts ...Option) *Redis {
	r := &Redis{rdb: rdb, ttl: defaultTTL, prefix: defaultPrefix}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Connect returns a Redis cache for redisURL. An empty URL, a bad URL or an
// unreachable server yields Noop so the service keeps working uncached.
func Connect(ctx context.Context, redisURL string, log logger.Logger, opts ...Option) Leaderboard {
	if redisURL == "" {
		log.Info(ctx, "redis: no URL configured, leaderboard cache disabled")
		return Noop{}
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn(ctx, "redis: invalid URL, leaderboard cache disabled", logger.Error(err))
		return Noop{}
	}
	rdb := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn(ctx, "redis: connection failed, leaderboard cache disabled", logger.Error(err))
		_ = rdb.Close()
		return Noop{}
	}
	log.Info(ctx, "redis: connected, leaderboard cache enabled", logger.String("addr", redisOpts.Addr))
	return NewRedis(rdb, opts...)
}

func (r *Redis) versionKey() string { return r.prefix + "version" }

func (r *Redis) valueKey(version int64) string {
	return r.prefix + "v" + strconv.FormatInt(version, 10)
}

func (r *Redis) version(ctx context.Context) (int64, error) {
	v, err := r.rdb.Get(ctx, r.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (r *Redis) Get(ctx context.Context) (*model.Leaderboard, int64, error) {
	version, err := r.version(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("read cache version: %w", err)
	}
	data, err := r.rdb.Get(ctx, r.valueKey(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, nil
	}
	if err != nil {
		return nil, version, fmt.Errorf("read cached leaderboard: %w", err)
	}
	var lb model.Leaderboard
	if err := json.Unmarshal(data, &lb); err != nil {
		return nil, version, fmt.Errorf("decode cached leaderboard: %w", err)
	}
	return &lb, version, nil
}

func (r *Redis) Set(ctx context.Context, version int64, lb model.Leaderboard) error {
	b, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, r.valueKey(version), b, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context) error {
	return r.rdb.Incr(ctx, r.versionKey()).Err()
}

func (r *Redis) Enabled() bool { return true }

// Close releases the client.
func (r *Redis) Close() error { return r.rdb.Close() }
