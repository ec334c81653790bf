package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockTTL = 10 * time.Second

// PairLock serializes follow-request creation for a (from, to) pair across
// processes. Acquire is a SETNX with a TTL, so a crashed holder cannot wedge
// the pair; the store's partial unique index remains the hard guarantee.
// Key format: followlock:<from>:<to>
type PairLock struct {
	client *redis.Client
}

// NewPairLock creates a PairLock wrapping the given Redis client.
func NewPairLock(client *redis.Client) *PairLock {
	return &PairLock{client: client}
}

// Acquire reports whether the caller now holds the pair lock.
func (l *PairLock) Acquire(ctx context.Context, from, to string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(from, to), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire pair lock: %w", err)
	}
	return ok, nil
}

// Release frees the pair lock. Releasing an expired lock is a no-op.
func (l *PairLock) Release(ctx context.Context, from, to string) error {
	return l.client.Del(ctx, l.key(from, to)).Err()
}

func (l *PairLock) key(from, to string) string {
	return fmt.Sprintf("followlock:%s:%s", from, to)
}
