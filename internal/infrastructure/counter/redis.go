package counter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultKeyPrefix namespaces counter keys in Redis
const DefaultKeyPrefix = "fts:counter:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// RedisSink stores totals in Redis with INCRBYFLOAT, so several kiosk
// processes can share one set of counters.
type RedisSink struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
	logger    *zap.Logger
}

// RedisSinkOption configures a RedisSink
type RedisSinkOption func(*RedisSink)

// WithRedisLogger sets the logger used for failed increments
func WithRedisLogger(logger *zap.Logger) RedisSinkOption {
	return func(s *RedisSink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRedisTimeout bounds each increment
func WithRedisTimeout(d time.Duration) RedisSinkOption {
	return func(s *RedisSink) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewRedisSink connects to Redis and verifies the connection
func NewRedisSink(cfg RedisConfig, opts ...RedisSinkOption) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSinkWithClient(client, cfg.KeyPrefix, opts...), nil
}

// NewRedisSinkWithClient creates a sink with an existing Redis client
func NewRedisSinkWithClient(client *redis.Client, keyPrefix string, opts ...RedisSinkOption) *RedisSink {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	s := &RedisSink{
		client:    client,
		keyPrefix: keyPrefix,
		timeout:   2 * time.Second,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Increment implements Sink. Redis errors are logged, not returned.
func (s *RedisSink) Increment(ctx context.Context, name string, amount float64) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.client.IncrByFloat(ctx, s.keyPrefix+name, amount).Err(); err != nil {
		s.logger.Warn("failed to increment counter",
			zap.String("counter", name),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
	}
}

// Value reads the current total for name; a missing key is zero
func (s *RedisSink) Value(ctx context.Context, name string) (float64, error) {
	v, err := s.client.Get(ctx, s.keyPrefix+name).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter %s: %w", name, err)
	}
	return v, nil
}

// Close closes the Redis client
func (s *RedisSink) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client
func (s *RedisSink) GetClient() *redis.Client {
	return s.client
}
