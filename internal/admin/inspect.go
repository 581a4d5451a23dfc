package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// KeyDump is a read-only snapshot of one key: its string or set
// contents plus the remaining TTL in seconds (-1 when the key has no
// expiry, absent keys are reported as nil dumps).
type KeyDump struct {
	Key        string   `json:"key"`
	Value      string   `json:"value,omitempty"`
	Members    []string `json:"members,omitempty"`
	TTLSeconds int64    `json:"ttl_seconds"`
}

// FingerprintReport dumps every record the engine keeps for one
// fingerprint
type FingerprintReport struct {
	Fingerprint    string   `json:"fingerprint"`
	GlobalAttempts *KeyDump `json:"global_attempts,omitempty"`
	RotationIndex  *KeyDump `json:"rotation_index,omitempty"`
	History        *KeyDump `json:"history,omitempty"`
	Reservations   []string `json:"reservations"`
}

// ChatReport dumps every record the engine keeps for one chat code
type ChatReport struct {
	ChatCode          string     `json:"chat_code"`
	RecentSuggestions *KeyDump   `json:"recent_suggestions,omitempty"`
	AttemptCounters   []*KeyDump `json:"attempt_counters"`
}

// InspectFingerprint returns a fingerprint's counter, rotation cursor,
// history, and the live reservations it owns
func (m *Maintenance) InspectFingerprint(ctx context.Context, fingerprint string) (*FingerprintReport, error) {
	keys := m.client.Keys()

	report := &FingerprintReport{
		Fingerprint:  fingerprint,
		Reservations: []string{},
	}

	var err error
	if report.GlobalAttempts, err = m.dumpString(ctx, keys.GlobalAttempts(fingerprint)); err != nil {
		return nil, err
	}
	if report.RotationIndex, err = m.dumpString(ctx, keys.RotationIndex(fingerprint)); err != nil {
		return nil, err
	}
	if report.History, err = m.dumpSet(ctx, keys.GenerationHistory(fingerprint)); err != nil {
		return nil, err
	}

	// Reservations carry only the owner, so finding a fingerprint's
	// names means walking the family.
	reservedPrefix := keys.Prefix() + "reserved:"
	err = m.scanPattern(ctx, reservedPrefix+"*", func(key string) error {
		owner, err := m.client.Redis().Get(ctx, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read reservation %s: %w", key, err)
		}
		if owner == fingerprint {
			report.Reservations = append(report.Reservations, strings.TrimPrefix(key, reservedPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(report.Reservations)

	return report, nil
}

// InspectChat returns a chat's recent-suggestions set and every
// per-fingerprint attempt counter under the chat code
func (m *Maintenance) InspectChat(ctx context.Context, chatCode string) (*ChatReport, error) {
	keys := m.client.Keys()

	report := &ChatReport{
		ChatCode:        chatCode,
		AttemptCounters: []*KeyDump{},
	}

	var err error
	if report.RecentSuggestions, err = m.dumpSet(ctx, keys.RecentSuggestions(chatCode)); err != nil {
		return nil, err
	}

	pattern := keys.ChatAttempts(chatCode, "*")
	err = m.scanPattern(ctx, pattern, func(key string) error {
		dump, err := m.dumpString(ctx, key)
		if err != nil {
			return err
		}
		if dump != nil {
			report.AttemptCounters = append(report.AttemptCounters, dump)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(report.AttemptCounters, func(i, j int) bool {
		return report.AttemptCounters[i].Key < report.AttemptCounters[j].Key
	})

	return report, nil
}

// scanPattern walks a pattern with a cursor-based scan, invoking fn for
// each key
func (m *Maintenance) scanPattern(ctx context.Context, pattern string, fn func(key string) error) error {
	var cursor uint64

	for {
		keys, next, err := m.client.Redis().Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return fmt.Errorf("scan failed for %s: %w", pattern, err)
		}

		for _, key := range keys {
			if err := fn(key); err != nil {
				return err
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (m *Maintenance) dumpString(ctx context.Context, key string) (*KeyDump, error) {
	pipe := m.client.Redis().Pipeline()
	get := pipe.Get(ctx, key)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to dump %s: %w", key, err)
	}

	if get.Err() == redis.Nil {
		return nil, nil
	}

	return &KeyDump{
		Key:        key,
		Value:      get.Val(),
		TTLSeconds: int64(ttl.Val().Seconds()),
	}, nil
}

func (m *Maintenance) dumpSet(ctx context.Context, key string) (*KeyDump, error) {
	pipe := m.client.Redis().Pipeline()
	members := pipe.SMembers(ctx, key)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to dump %s: %w", key, err)
	}

	if len(members.Val()) == 0 {
		return nil, nil
	}

	sorted := append([]string(nil), members.Val()...)
	sort.Strings(sorted)

	return &KeyDump{
		Key:        key,
		Members:    sorted,
		TTLSeconds: int64(ttl.Val().Seconds()),
	}, nil
}
