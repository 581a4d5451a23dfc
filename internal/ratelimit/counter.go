// Package ratelimit provides a TTL-bounded counter with a ceiling,
// backed by a Redis Lua script so check and increment are atomic.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robertddewey/chatpop/internal/storage"
)

// A denied counter is never incremented, so hammering a denied key does
// not extend its window. The TTL is set only on the first increment of
// a fresh window; the window is anchored at first use.
const counterScript = `
local count = tonumber(redis.call('GET', KEYS[1]) or "0")
local ceiling = tonumber(ARGV[1])

if ceiling > 0 and count >= ceiling then
    local ttl = redis.call('TTL', KEYS[1])
    return {-1, 0, ttl > 0 and ttl or tonumber(ARGV[2])}
end

if count == 0 then
    redis.call('SET', KEYS[1], 1, 'EX', tonumber(ARGV[2]))
else
    redis.call('INCR', KEYS[1])
end

local remaining = 0
if ceiling > 0 then
    remaining = ceiling - count - 1
end

return {1, remaining, 0}
`

// Counter is a bounded attempt counter. One instance serves every key;
// scoping lives in the key, not the counter.
type Counter struct {
	client *storage.Client
	sha    string
}

// NewCounter loads the counter script and returns a Counter
func NewCounter(client *storage.Client) (*Counter, error) {
	ctx := context.Background()

	sha, err := client.Redis().ScriptLoad(ctx, counterScript).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load counter script: %w", err)
	}

	return &Counter{
		client: client,
		sha:    sha,
	}, nil
}

// Result holds the outcome of a counter check
type Result struct {
	Allowed        bool
	Remaining      int
	SecondsToReset int
}

// Allow checks the counter against its ceiling and increments it when
// under. A ceiling of 0 means unlimited; unlimited counters still count
// but always report Remaining 0.
func (c *Counter) Allow(ctx context.Context, key string, ceiling int, window time.Duration) (*Result, error) {
	result, err := c.client.Redis().EvalSha(ctx, c.sha, []string{key},
		ceiling,
		int(window.Seconds()),
	).Result()

	if err != nil {
		return nil, fmt.Errorf("counter check failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("unexpected counter result format")
	}

	status, _ := values[0].(int64)
	remaining, _ := values[1].(int64)
	seconds, _ := values[2].(int64)

	switch status {
	case 1:
		return &Result{Allowed: true, Remaining: int(remaining)}, nil
	case -1:
		return &Result{Allowed: false, SecondsToReset: int(seconds)}, nil
	default:
		return nil, fmt.Errorf("unknown counter status: %d", status)
	}
}

// Peek returns the current count without incrementing
func (c *Counter) Peek(ctx context.Context, key string) (int, error) {
	val, err := c.client.Redis().Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}

	return val, nil
}
