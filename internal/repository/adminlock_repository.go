package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const adminLockKey = "formaplan:admin_lock"

// AdminLockRepository holds the single-admin-session lock as a Redis key
// with a TTL. The holder refreshes the TTL on a heartbeat; a lock whose TTL
// expired is stale and can be taken over.
type AdminLockRepository struct {
	client *redis.Client
}

// NewAdminLockRepository constructs an AdminLockRepository.
func NewAdminLockRepository(client *redis.Client) *AdminLockRepository {
	return &AdminLockRepository{client: client}
}

// Acquire attempts to take the lock for the session. Returns false when a
// live lock is held by another session. A nil client disables locking.
func (r *AdminLockRepository) Acquire(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	if r.client == nil {
		return true, nil
	}
	ok, err := r.client.SetNX(ctx, adminLockKey, sessionID, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire admin lock: %w", err)
	}
	return ok, nil
}

// Holder returns the session currently holding the lock, or "" when free.
func (r *AdminLockRepository) Holder(ctx context.Context) (string, error) {
	if r.client == nil {
		return "", nil
	}
	holder, err := r.client.Get(ctx, adminLockKey).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("read admin lock: %w", err)
	}
	return holder, nil
}

// Heartbeat extends the TTL when the session still holds the lock. Returns
// false when the lock has been lost.
func (r *AdminLockRepository) Heartbeat(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	if r.client == nil {
		return true, nil
	}
	const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("PEXPIRE", KEYS[1], ARGV[2]) else return 0 end`
	res, err := r.client.Eval(ctx, script, []string{adminLockKey}, sessionID, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("heartbeat admin lock: %w", err)
	}
	return res == 1, nil
}

// Release frees the lock when still held by the session. Releasing a lock
// someone else took over is a no-op.
func (r *AdminLockRepository) Release(ctx context.Context, sessionID string) error {
	if r.client == nil {
		return nil
	}
	const script = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`
	if err := r.client.Eval(ctx, script, []string{adminLockKey}, sessionID).Err(); err != nil {
		return fmt.Errorf("release admin lock: %w", err)
	}
	return nil
}

// Steal overwrites the lock regardless of the holder. The TTL-based
// staleness makes this safe to expose as an explicit takeover capability.
func (r *AdminLockRepository) Steal(ctx context.Context, sessionID string, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Set(ctx, adminLockKey, sessionID, ttl).Err(); err != nil {
		return fmt.Errorf("steal admin lock: %w", err)
	}
	return nil
}
