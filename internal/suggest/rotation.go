package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robertddewey/chatpop/internal/storage"
)

// Rotation is the per-fingerprint cursor into the candidate pool. It
// lives in the store, not in process memory, so every stateless
// instance advances the same cursor.
type Rotation struct {
	client *storage.Client
	ttl    time.Duration
}

// NewRotation creates a rotation cursor with the given window
func NewRotation(client *storage.Client, ttl time.Duration) *Rotation {
	return &Rotation{
		client: client,
		ttl:    ttl,
	}
}

// Next advances the fingerprint's cursor and returns the new value.
// The cursor is monotonically non-decreasing until it expires, so a
// retry after a collision or rejection never replays the same
// candidate.
func (r *Rotation) Next(ctx context.Context, fingerprint string) (int64, error) {
	key := r.client.Keys().RotationIndex(fingerprint)

	pipe := r.client.Redis().Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to advance rotation index: %w", err)
	}

	return incr.Val(), nil
}

// Current returns the fingerprint's cursor without advancing it
func (r *Rotation) Current(ctx context.Context, fingerprint string) (int64, error) {
	key := r.client.Keys().RotationIndex(fingerprint)

	val, err := r.client.Redis().Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read rotation index: %w", err)
	}

	return val, nil
}
