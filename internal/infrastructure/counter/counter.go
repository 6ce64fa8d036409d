// Package counter holds the running-total sinks the receipt composer writes
// savings, material costs, sales tax and recycling fees into.
package counter

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Sink accumulates named running totals. Increment never reports failure.
type Sink interface {
	Increment(ctx context.Context, name string, amount float64)
}

// MemorySink keeps totals in process memory.
// This is suitable for single-instance deployments and testing.
type MemorySink struct {
	mu     sync.RWMutex
	totals map[string]float64
}

// NewMemorySink creates an empty in-memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{totals: make(map[string]float64)}
}

// Increment implements Sink
func (s *MemorySink) Increment(_ context.Context, name string, amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals[name] += amount
}

// Value returns the current total for name
func (s *MemorySink) Value(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totals[name]
}

// Names returns the counters touched so far, sorted
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.totals))
	for name := range s.totals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of every total
func (s *MemorySink) Snapshot() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]float64, len(s.totals))
	for k, v := range s.totals {
		out[k] = v
	}
	return out
}

// Multi fans an increment out to every sink in order
type Multi []Sink

// Increment implements Sink. A panicking sink is logged and skipped.
func (m Multi) Increment(ctx context.Context, name string, amount float64) {
	for _, s := range m {
		if s == nil {
			continue
		}
		incrementSafely(ctx, s, name, amount)
	}
}

func incrementSafely(ctx context.Context, s Sink, name string, amount float64) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("counter sink panicked",
				zap.String("counter", name),
				zap.Any("panic", r),
			)
		}
	}()
	s.Increment(ctx, name, amount)
}
