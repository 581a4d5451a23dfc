// Package suggest turns a fingerprint's request into either a fresh,
// globally-unique username or a rate-limit denial carrying the names
// the fingerprint already holds. All coordination goes through the TTL
// store; the engine keeps no state between calls.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robertddewey/chatpop/internal/ratelimit"
	"github.com/robertddewey/chatpop/internal/storage"
	"github.com/robertddewey/chatpop/internal/username"
	"github.com/rs/zerolog"
)

// Candidates produces pool-ordered candidate usernames for a
// fingerprint. Implementations must be deterministic per rotation
// index.
type Candidates interface {
	Candidate(fingerprint string, rotation int64) string
	PoolSize() int
}

// Limits carries the engine's ceilings and windows
type Limits struct {
	MaxGlobal         int
	MaxPerChat        int
	Window            time.Duration
	ReservationTTL    time.Duration
	MaxReserveRetries int
}

// Request asks for one username suggestion. ChatCode is optional; when
// empty only the global counter applies.
type Request struct {
	Fingerprint string
	ChatCode    string
}

// Suggestion is a granted username plus the fingerprint's remaining
// global generation budget
type Suggestion struct {
	Username  string
	Remaining int
}

// Engine orchestrates counters, generation, validation, and
// reservation for each request
type Engine struct {
	counter    *ratelimit.Counter
	ledger     *Ledger
	history    *History
	recent     *RecentSet
	rotation   *Rotation
	candidates Candidates
	validator  *username.Validator
	keys       *storage.Keys
	limits     Limits
	logger     zerolog.Logger
}

// New creates a suggestion engine
func New(client *storage.Client, candidates Candidates, validator *username.Validator, limits Limits, logger zerolog.Logger) (*Engine, error) {
	counter, err := ratelimit.NewCounter(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter: %w", err)
	}

	return &Engine{
		counter:    counter,
		ledger:     NewLedger(client, limits.ReservationTTL),
		history:    NewHistory(client, limits.ReservationTTL),
		recent:     NewRecentSet(client, limits.ReservationTTL),
		rotation:   NewRotation(client, limits.ReservationTTL),
		candidates: candidates,
		validator:  validator,
		keys:       client.Keys(),
		limits:     limits,
		logger:     logger,
	}, nil
}

// Suggest runs one request through the rate check, generation,
// validation, and reservation steps. Reservation collisions are
// retried internally with an advanced rotation index; the caller only
// ever sees a granted name, a denial, or a fault.
func (e *Engine) Suggest(ctx context.Context, req Request) (*Suggestion, error) {
	fingerprint := strings.TrimSpace(req.Fingerprint)
	if fingerprint == "" {
		return nil, &username.ValidationError{Reason: "fingerprint is required"}
	}

	// Rate check: chat scope first when present, then global. Either
	// denial short-circuits with the recovery payload.
	if req.ChatCode != "" {
		chatKey := e.keys.ChatAttempts(req.ChatCode, fingerprint)
		result, err := e.counter.Allow(ctx, chatKey, e.limits.MaxPerChat, e.limits.Window)
		if err != nil {
			return nil, storeErr("chat attempt counter", err)
		}
		if !result.Allowed {
			return nil, e.deny(ctx, fingerprint, "chat", result.SecondsToReset)
		}
	}

	globalKey := e.keys.GlobalAttempts(fingerprint)
	global, err := e.counter.Allow(ctx, globalKey, e.limits.MaxGlobal, e.limits.Window)
	if err != nil {
		return nil, storeErr("global attempt counter", err)
	}
	if !global.Allowed {
		return nil, e.deny(ctx, fingerprint, "global", global.SecondsToReset)
	}

	for attempt := 0; attempt < e.limits.MaxReserveRetries; attempt++ {
		rotation, err := e.rotation.Next(ctx, fingerprint)
		if err != nil {
			return nil, storeErr("rotation index", err)
		}

		candidate := e.candidates.Candidate(fingerprint, rotation)

		if _, err := e.validator.Validate(ctx, candidate, true); err != nil {
			var vErr *username.ValidationError
			if errors.As(err, &vErr) {
				e.logger.Debug().
					Str("candidate", candidate).
					Str("reason", vErr.Reason).
					Msg("Generated candidate rejected")
				continue
			}
			return nil, err
		}

		if req.ChatCode != "" {
			seen, err := e.recent.Contains(ctx, req.ChatCode, candidate)
			if err != nil {
				return nil, storeErr("recent suggestions", err)
			}
			if seen {
				continue
			}
		}

		reserved, err := e.ledger.TryReserve(ctx, candidate, fingerprint)
		if err != nil {
			return nil, storeErr("reservation", err)
		}
		if !reserved {
			e.logger.Debug().
				Str("candidate", candidate).
				Int("attempt", attempt+1).
				Msg("Candidate already reserved, rotating")
			continue
		}

		if err := e.history.Record(ctx, fingerprint, candidate); err != nil {
			return nil, storeErr("generation history", err)
		}

		if req.ChatCode != "" {
			if err := e.recent.Add(ctx, req.ChatCode, candidate); err != nil {
				return nil, storeErr("recent suggestions", err)
			}
		}

		return &Suggestion{
			Username:  candidate,
			Remaining: global.Remaining,
		}, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrPoolExhausted, e.limits.MaxReserveRetries)
}

// Previous returns the recovery payload for a fingerprint without
// generating anything
func (e *Engine) Previous(ctx context.Context, fingerprint string) ([]string, error) {
	return e.history.Previous(ctx, fingerprint)
}

// deny builds the rate-limit denial, attaching everything the
// fingerprint already owns
func (e *Engine) deny(ctx context.Context, fingerprint, scope string, secondsToReset int) error {
	previous, err := e.history.Previous(ctx, fingerprint)
	if err != nil {
		return storeErr("generation history", err)
	}

	e.logger.Info().
		Str("fingerprint", fingerprint).
		Str("scope", scope).
		Int("previous", len(previous)).
		Msg("Generation rate limited")

	return &RateLimitedError{
		Scope:          scope,
		SecondsToReset: secondsToReset,
		Previous:       previous,
	}
}
