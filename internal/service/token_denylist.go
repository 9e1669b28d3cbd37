package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist remembers revoked token ids until the tokens expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const denylistKeyPrefix = "foodgram:revoked_token:"

// RedisDenylist keeps revoked ids as expiring redis keys, shared by every
// API instance.
type RedisDenylist struct {
	client *redis.Client
}

func NewRedisDenylist(client *redis.Client) *RedisDenylist {
	return &RedisDenylist{client: client}
}

func (d *RedisDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, denylistKeyPrefix+jti, 1, ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.client.Get(ctx, denylistKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryDenylist is the single-process fallback used when redis is not configured.
type MemoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *MemoryDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
	if expiresAt.After(now) {
		d.revoked[jti] = expiresAt
	}
	return nil
}

func (d *MemoryDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.revoked[jti]
	return ok && exp.After(d.now()), nil
}
