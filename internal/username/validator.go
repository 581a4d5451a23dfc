// Package username enforces the display-username format contract and
// the profanity gate for user-typed names.
package username

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Length bounds for display usernames
const (
	MinLength = 5
	MaxLength = 15
)

var formatPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidationError describes a rejected username candidate
type ValidationError struct {
	Reason string
}

// Error returns the rejection reason
func (e *ValidationError) Error() string {
	return e.Reason
}

// Decision is the outcome of a profanity check
type Decision struct {
	Allowed bool
	Reason  string
}

// Checker decides whether a candidate username is acceptable language.
// Implementations are consulted only for user-typed names; generated
// candidates come from a vetted word list and skip the check.
type Checker interface {
	IsUsernameAllowed(ctx context.Context, value string) (Decision, error)
}

// Validator enforces the username format rules
type Validator struct {
	checker Checker
}

// NewValidator creates a Validator backed by a profanity checker. The
// checker may be nil when every caller skips the profanity step.
func NewValidator(checker Checker) *Validator {
	return &Validator{checker: checker}
}

// Validate applies the format rules in order and returns the trimmed
// username. Rules fail fast: empty, length, character set, then the
// profanity check unless skipProfanity is set.
func (v *Validator) Validate(ctx context.Context, candidate string, skipProfanity bool) (string, error) {
	trimmed := strings.TrimSpace(candidate)

	if trimmed == "" {
		return "", &ValidationError{Reason: "username must not be empty"}
	}

	if len(trimmed) < MinLength || len(trimmed) > MaxLength {
		return "", &ValidationError{
			Reason: fmt.Sprintf("username must be between %d and %d characters", MinLength, MaxLength),
		}
	}

	if !formatPattern.MatchString(trimmed) {
		return "", &ValidationError{Reason: "username may only contain letters, numbers, and underscores"}
	}

	if !skipProfanity && v.checker != nil {
		decision, err := v.checker.IsUsernameAllowed(ctx, trimmed)
		if err != nil {
			return "", fmt.Errorf("profanity check failed: %w", err)
		}
		if !decision.Allowed {
			return "", &ValidationError{Reason: "not allowed: " + decision.Reason}
		}
	}

	return trimmed, nil
}
