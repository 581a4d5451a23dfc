package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/robertddewey/chatpop/internal/storage"
)

// RecentSet tracks names recently suggested inside one chat so the
// same room does not show visible repeats. It is a diversity filter,
// not an ownership record; exclusivity belongs to the Ledger.
type RecentSet struct {
	client *storage.Client
	ttl    time.Duration
}

// NewRecentSet creates a recent-suggestions set with the given window
func NewRecentSet(client *storage.Client, ttl time.Duration) *RecentSet {
	return &RecentSet{
		client: client,
		ttl:    ttl,
	}
}

// Add records a suggested name for a chat and refreshes the set's TTL
func (r *RecentSet) Add(ctx context.Context, chatCode, name string) error {
	key := r.client.Keys().RecentSuggestions(chatCode)

	pipe := r.client.Redis().Pipeline()
	pipe.SAdd(ctx, key, name)
	pipe.Expire(ctx, key, r.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record recent suggestion: %w", err)
	}

	return nil
}

// Contains reports whether a name was recently suggested in the chat
func (r *RecentSet) Contains(ctx context.Context, chatCode, name string) (bool, error) {
	key := r.client.Keys().RecentSuggestions(chatCode)

	seen, err := r.client.Redis().SIsMember(ctx, key, name).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check recent suggestions: %w", err)
	}

	return seen, nil
}
