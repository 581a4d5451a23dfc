// Package admin holds the out-of-band operator surface: bulk key-family
// deletion and read-only state inspection. Nothing here runs on the
// request path.
package admin

import (
	"context"
	"fmt"

	"github.com/robertddewey/chatpop/internal/storage"
	"github.com/rs/zerolog"
)

// scanCount bounds each SCAN page so the reset never stalls the shared
// store the way a KEYS call would.
const scanCount = 200

// Maintenance performs operator commands against the engine's key
// families
type Maintenance struct {
	client *storage.Client
	logger zerolog.Logger
}

// NewMaintenance creates a maintenance runner
func NewMaintenance(client *storage.Client, logger zerolog.Logger) *Maintenance {
	return &Maintenance{
		client: client,
		logger: logger,
	}
}

// ResetReport counts deletions per key-family pattern
type ResetReport struct {
	Deleted map[string]int64
	Total   int64
}

// Reset deletes every key family the engine owns: reservations,
// histories, counters, recent-suggestion sets, and rotation cursors.
// It resets all rate-limit state globally, so it must not run while
// production traffic expects stable counters.
func (m *Maintenance) Reset(ctx context.Context) (*ResetReport, error) {
	report := &ResetReport{
		Deleted: make(map[string]int64),
	}

	for _, pattern := range m.client.Keys().Patterns() {
		deleted, err := m.deleteByPattern(ctx, pattern)
		if err != nil {
			return nil, err
		}

		m.logger.Info().
			Str("pattern", pattern).
			Int64("deleted", deleted).
			Msg("Cleared key family")

		report.Deleted[pattern] = deleted
		report.Total += deleted
	}

	return report, nil
}

// deleteByPattern walks one pattern with a cursor-based scan, deleting
// each page in a single batch
func (m *Maintenance) deleteByPattern(ctx context.Context, pattern string) (int64, error) {
	var cursor uint64
	var deleted int64

	for {
		keys, next, err := m.client.Redis().Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan failed for %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			n, err := m.client.Redis().Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("delete failed for %s: %w", pattern, err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}
