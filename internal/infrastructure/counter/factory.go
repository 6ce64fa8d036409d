package counter

import (
	"fmt"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates the counter store from configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the sinks it creates
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateSink returns a RedisSink when Redis is enabled and reachable,
// otherwise a MemorySink if fallback is allowed.
func (f *Factory) CreateSink() (Sink, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, counters kept in memory")
		return NewMemorySink(), nil
	}

	sink, err := NewRedisSink(RedisConfig{
		Host:      f.redisConfig.Host,
		Port:      f.redisConfig.Port,
		Password:  f.redisConfig.Password,
		DB:        f.redisConfig.DB,
		KeyPrefix: f.redisConfig.KeyPrefix,
	}, WithRedisLogger(f.logger))
	if err == nil {
		f.logger.Info("using Redis counter store", zap.String("addr", f.redisConfig.Addr()))
		return sink, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for counters but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory counters. "+
		"Totals will not be shared across kiosk processes.",
		zap.Error(err),
	)
	return NewMemorySink(), nil
}
