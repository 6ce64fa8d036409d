package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// KioskRevocations invalidates every token issued to a kiosk before a point
// in time, e.g. when a kiosk is decommissioned or its device is replaced.
type KioskRevocations interface {
	Revoke(ctx context.Context, kioskID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, kioskID string, issuedAt time.Time) (bool, error)
}

// RedisKioskRevocations stores revocation timestamps in Redis
type RedisKioskRevocations struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisKioskRevocations creates a revocation list on an existing Redis client
func NewRedisKioskRevocations(client *redis.Client) *RedisKioskRevocations {
	return &RedisKioskRevocations{
		client:    client,
		keyPrefix: "token:revoked:kiosk:",
		now:       time.Now,
	}
}

// Revoke rejects tokens for kioskID issued up to now. ttl should cover the token lifetime.
func (r *RedisKioskRevocations) Revoke(ctx context.Context, kioskID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.keyPrefix+kioskID, r.now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke kiosk tokens: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token issued at issuedAt has been revoked
func (r *RedisKioskRevocations) IsRevoked(ctx context.Context, kioskID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, r.keyPrefix+kioskID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check kiosk revocation: %w", err)
	}
	revokedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation timestamp: %w", err)
	}
	return issuedAt.Unix() <= revokedAt, nil
}

// Ensure RedisKioskRevocations implements KioskRevocations
var _ KioskRevocations = (*RedisKioskRevocations)(nil)

// InMemoryKioskRevocations is a single-process revocation list
type InMemoryKioskRevocations struct {
	mu        sync.RWMutex
	revokedAt map[string]time.Time
	now       func() time.Time
}

// NewInMemoryKioskRevocations creates an empty revocation list
func NewInMemoryKioskRevocations() *InMemoryKioskRevocations {
	return &InMemoryKioskRevocations{revokedAt: make(map[string]time.Time), now: time.Now}
}

// Revoke rejects tokens for kioskID issued up to now
func (r *InMemoryKioskRevocations) Revoke(_ context.Context, kioskID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revokedAt[kioskID] = r.now()
	return nil
}

// IsRevoked reports whether a token issued at issuedAt has been revoked
func (r *InMemoryKioskRevocations) IsRevoked(_ context.Context, kioskID string, issuedAt time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	at, ok := r.revokedAt[kioskID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(at), nil
}

// Ensure InMemoryKioskRevocations implements KioskRevocations
var _ KioskRevocations = (*InMemoryKioskRevocations)(nil)
