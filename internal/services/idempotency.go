package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// SubmitGuard absorbs duplicate checkout submissions across connections with
// a Redis SetNX lock keyed by session. A nil guard accepts everything; the
// per-session processing flag still protects a single process.
type SubmitGuard struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSubmitGuard constructs a SubmitGuard.
func NewSubmitGuard(rdb *redis.Client, ttl time.Duration) *SubmitGuard {
	return &SubmitGuard{rdb: rdb, ttl: ttl}
}

func (g *SubmitGuard) key(sessionID string) string {
	return "checkout:submit:" + sessionID
}

// Acquire claims the submission slot for a session. It returns false when an
// earlier submission already holds it.
func (g *SubmitGuard) Acquire(ctx context.Context, sessionID string) (bool, error) {
	if g == nil || g.rdb == nil {
		return true, nil
	}
	return g.rdb.SetNX(ctx, g.key(sessionID), "1", g.ttl).Result()
}

// Release frees the slot so a failed submission can be retried immediately.
// After a success the key is left to expire and soaks up trailing duplicates.
func (g *SubmitGuard) Release(ctx context.Context, sessionID string) error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Del(ctx, g.key(sessionID)).Err()
}
