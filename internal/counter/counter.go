// Package counter holds the two request counters: a per-process tally and a
// Redis-backed counter shared across processes.
package counter

import (
	"context"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// Tally counts every inbound request handled by this process. It is not
// synchronized across workers and resets on restart or by explicit call.
type Tally struct {
	n atomic.Int64
}

func (t *Tally) Inc() {
	t.n.Add(1)
}

func (t *Tally) Value() int64 {
	return t.n.Load()
}

func (t *Tally) Reset() {
	t.n.Store(0)
}

// SharedKey is the Redis key backing the externally visible request counter.
const SharedKey = "request_count"

// Shared is the cross-process counter. Increment uses INCR so concurrent
// increments cannot be lost.
type Shared struct {
	rdb *redis.Client
}

func NewShared(rdb *redis.Client) *Shared {
	return &Shared{rdb: rdb}
}

// Get returns the counter value; a missing key reads as zero.
func (s *Shared) Get(ctx context.Context) (int64, error) {
	n, err := s.rdb.Get(ctx, SharedKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (s *Shared) Increment(ctx context.Context) (int64, error) {
	return s.rdb.Incr(ctx, SharedKey).Result()
}

func (s *Shared) Reset(ctx context.Context) error {
	return s.rdb.Set(ctx, SharedKey, 0, 0).Err()
}
