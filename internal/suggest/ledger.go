package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robertddewey/chatpop/internal/storage"
)

// Ledger is the set of live username reservations. A reservation is an
// exclusive, case-insensitive claim that only ever ends by expiry;
// there is no release path.
type Ledger struct {
	client *storage.Client
	ttl    time.Duration
}

// NewLedger creates a reservation ledger with the given window
func NewLedger(client *storage.Client, ttl time.Duration) *Ledger {
	return &Ledger{
		client: client,
		ttl:    ttl,
	}
}

// TryReserve claims a username for a fingerprint. The claim is a single
// conditional set: two fingerprints racing on the same candidate cannot
// both succeed. Returns false when the case-folded name is taken.
func (l *Ledger) TryReserve(ctx context.Context, name, fingerprint string) (bool, error) {
	key := l.client.Keys().Reservation(strings.ToLower(name))

	ok, err := l.client.Redis().SetNX(ctx, key, fingerprint, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve username: %w", err)
	}

	return ok, nil
}

// Owner returns the fingerprint holding a reservation, or "" when the
// name is free
func (l *Ledger) Owner(ctx context.Context, name string) (string, error) {
	key := l.client.Keys().Reservation(strings.ToLower(name))

	owner, err := l.client.Redis().Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read reservation: %w", err)
	}

	return owner, nil
}
