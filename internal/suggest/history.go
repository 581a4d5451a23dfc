package suggest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/robertddewey/chatpop/internal/storage"
)

// History tracks the usernames already granted to each fingerprint,
// case preserved. It backs the recovery payload returned on denial.
type History struct {
	client *storage.Client
	ttl    time.Duration
}

// NewHistory creates a generation history with the given window
func NewHistory(client *storage.Client, ttl time.Duration) *History {
	return &History{
		client: client,
		ttl:    ttl,
	}
}

// Record appends a granted username and refreshes the set's TTL to
// match the reservation window
func (h *History) Record(ctx context.Context, fingerprint, name string) error {
	key := h.client.Keys().GenerationHistory(fingerprint)

	pipe := h.client.Redis().Pipeline()
	pipe.SAdd(ctx, key, name)
	pipe.Expire(ctx, key, h.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record username: %w", err)
	}

	return nil
}

// Previous returns the fingerprint's granted usernames, deduplicated
// case-insensitively and sorted alphabetically. Lexicographic order of
// the stored members picks the surviving casing for duplicates.
func (h *History) Previous(ctx context.Context, fingerprint string) ([]string, error) {
	key := h.client.Keys().GenerationHistory(fingerprint)

	members, err := h.client.Redis().SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	sort.Strings(members)

	names := make([]string, 0, len(members))
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		lower := strings.ToLower(m)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		names = append(names, m)
	}

	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	return names, nil
}
