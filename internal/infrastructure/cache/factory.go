package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalhr/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key this service writes to Redis
const KeyPrefix = "dhr:"

// sweepInterval is how often the in-memory fallback drops expired entries
const sweepInterval = 5 * time.Minute

// Factory creates the shared store from configuration
type Factory struct {
	cfg                   config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	pingTimeout           time.Duration
}

// FactoryOption configures a Factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to
// the in-memory store instead of failing. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cfg:                   cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
		pingTimeout:           3 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Connect opens and pings a Redis client
func (f *Factory) Connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         f.cfg.Addr(),
		Password:     f.cfg.Password,
		DB:           f.cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", f.cfg.Addr(), err)
	}
	return client, nil
}

// CreateStore returns a Redis-backed store and its client when Redis is
// reachable. Otherwise it returns the in-memory store and a nil client,
// unless the fallback was disabled.
func (f *Factory) CreateStore(ctx context.Context) (Store, *redis.Client, error) {
	client, err := f.Connect(ctx)
	if err == nil {
		f.logger.Info("Using Redis cache store", zap.String("addr", f.cfg.Addr()))
		return NewRedisStore(client, KeyPrefix), client, nil
	}
	if !f.allowInMemoryFallback {
		return nil, nil, err
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory cache store. "+
		"Webhook de-duplication and token revocation are then per instance.",
		zap.Error(err),
	)
	return NewMemoryStore(sweepInterval), nil, nil
}
