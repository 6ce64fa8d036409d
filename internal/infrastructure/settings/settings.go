// Package settings provides read-only numeric setting lookups backed by
// static configuration and the settings store.
package settings

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Reader is a read-only float lookup
type Reader interface {
	GetFloat(key string) (float64, bool)
}

// Static serves settings from a fixed map
type Static map[string]float64

// GetFloat implements Reader
func (s Static) GetFloat(key string) (float64, bool) {
	v, ok := s[key]
	return v, ok
}

// Chain consults each reader in order; the first hit wins
type Chain []Reader

// GetFloat implements Reader
func (c Chain) GetFloat(key string) (float64, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if v, ok := r.GetFloat(key); ok {
			return v, true
		}
	}
	return 0, false
}

// Loader returns every stored setting
type Loader interface {
	All(ctx context.Context) (map[string]float64, error)
}

// Snapshot keeps an in-memory copy of a Loader so lookups never touch the
// database. A failed refresh keeps the previous copy.
type Snapshot struct {
	loader  Loader
	current atomic.Pointer[map[string]float64]
	logger  *zap.Logger

	refreshes atomic.Int64
	failures  atomic.Int64
}

// SnapshotOption configures a Snapshot
type SnapshotOption func(*Snapshot)

// WithSnapshotLogger sets the logger
func WithSnapshotLogger(logger *zap.Logger) SnapshotOption {
	return func(s *Snapshot) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSnapshot creates an empty Snapshot; call Refresh to populate it
func NewSnapshot(loader Loader, opts ...SnapshotOption) *Snapshot {
	s := &Snapshot{loader: loader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	empty := map[string]float64{}
	s.current.Store(&empty)
	return s
}

// GetFloat implements Reader
func (s *Snapshot) GetFloat(key string) (float64, bool) {
	m := *s.current.Load()
	v, ok := m[key]
	return v, ok
}

// Refresh reloads the snapshot from the loader
func (s *Snapshot) Refresh(ctx context.Context) error {
	m, err := s.loader.All(ctx)
	if err != nil {
		s.failures.Add(1)
		return err
	}
	if m == nil {
		m = map[string]float64{}
	}
	s.current.Store(&m)
	s.refreshes.Add(1)
	s.logger.Debug("settings snapshot refreshed", zap.Int("count", len(m)))
	return nil
}

// Run refreshes every interval until ctx is done. Failures are logged.
func (s *Snapshot) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("settings refresh failed, keeping previous values", zap.Error(err))
			}
		}
	}
}

// Stats reports successful and failed refreshes
func (s *Snapshot) Stats() (refreshes, failures int64) {
	return s.refreshes.Load(), s.failures.Load()
}
