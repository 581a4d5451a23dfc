package suggest

import (
	"errors"
	"fmt"
)

// ErrPoolExhausted means the reserve loop consumed its retry budget
// without claiming a free candidate. It signals an operational problem
// (pool too small, or a collision storm), never a user mistake.
var ErrPoolExhausted = errors.New("candidate pool exhausted")

// ErrStoreUnavailable means a store operation failed outright. It is
// deliberately distinct from rate limiting so outages are never
// reported as denials.
var ErrStoreUnavailable = errors.New("store unavailable")

// RateLimitedError is returned when either attempt counter denies a
// request. It carries the usernames the fingerprint already holds so a
// limited client can recover them instead of being locked out.
type RateLimitedError struct {
	Scope          string // "chat" or "global"
	SecondsToReset int
	Previous       []string
}

// Error returns the denial message
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("username generation limit reached (%s)", e.Scope)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
