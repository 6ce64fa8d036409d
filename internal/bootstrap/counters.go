package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/auth"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/counter"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// Counters is the running-total store plus the metrics mirror, if any
type Counters struct {
	Store   counter.Sink
	Metrics *telemetry.ReceiptMetrics
}

// OpenCounters opens the counter store. When Redis is unreachable the totals
// are kept in memory unless requireRedis is set.
func OpenCounters(cfg config.RedisConfig, tel *Telemetry, requireRedis bool, logger *zap.Logger) (*Counters, error) {
	store, err := counter.NewFactory(cfg,
		counter.WithLogger(logger.Named("counter")),
		counter.WithInMemoryFallback(!requireRedis),
	).CreateSink()
	if err != nil {
		return nil, err
	}

	c := &Counters{Store: store}
	if tel == nil {
		return c, nil
	}
	if meter := tel.ServiceMeter(); meter != nil {
		metrics, err := telemetry.NewReceiptMetrics(meter, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Metrics = metrics
	}
	return c, nil
}

// Sink returns the sink the composer increments. Totals reach the metrics
// pipeline as well when metrics are enabled.
func (c *Counters) Sink() counter.Sink {
	if c.Metrics == nil {
		return c.Store
	}
	return counter.Multi{c.Store, c.Metrics}
}

// Revocations shares the Redis connection of the counter store. Without
// Redis, revocations only live as long as the process.
func (c *Counters) Revocations() auth.KioskRevocations {
	if redisSink, ok := c.Store.(*counter.RedisSink); ok {
		return auth.NewRedisKioskRevocations(redisSink.GetClient())
	}
	return auth.NewInMemoryKioskRevocations()
}

// Ping checks the Redis connection. The in-memory store is always healthy.
func (c *Counters) Ping(ctx context.Context) error {
	if redisSink, ok := c.Store.(*counter.RedisSink); ok {
		return redisSink.GetClient().Ping(ctx).Err()
	}
	return nil
}

// Close releases the Redis connection, if any
func (c *Counters) Close() {
	if redisSink, ok := c.Store.(*counter.RedisSink); ok {
		_ = redisSink.Close()
	}
}

// RunRetention deletes archived receipts older than retention every interval
// until ctx is done. A zero retention keeps receipts forever.
func RunRetention(ctx context.Context, archive infra.ReceiptArchive, retention, interval time.Duration, logger *zap.Logger) {
	if archive == nil || retention <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := archive.CleanupOlderThan(ctx, retention)
			if err != nil {
				logger.Warn("archive cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("archive cleanup", zap.Int("removed", removed), zap.Duration("retention", retention))
			}
		}
	}
}
