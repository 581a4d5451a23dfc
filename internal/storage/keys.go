package storage

import (
	"fmt"
)

// Keys generates Redis keys with consistent naming
type Keys struct {
	prefix string
}

// NewKeys creates a new Keys generator
func NewKeys(prefix string) *Keys {
	return &Keys{prefix: prefix}
}

// Prefix returns the configured key prefix
func (k *Keys) Prefix() string {
	return k.prefix
}

// Reservation returns the key holding the owner of a case-folded
// username. Callers must lowercase the username first.
func (k *Keys) Reservation(usernameLower string) string {
	return fmt.Sprintf("%sreserved:%s", k.prefix, usernameLower)
}

// GenerationHistory returns the key for the set of usernames already
// granted to a fingerprint
func (k *Keys) GenerationHistory(fingerprint string) string {
	return fmt.Sprintf("%sgenerated_for_fingerprint:%s", k.prefix, fingerprint)
}

// GlobalAttempts returns the key for the global generation counter
func (k *Keys) GlobalAttempts(fingerprint string) string {
	return fmt.Sprintf("%sgeneration_attempts:%s", k.prefix, fingerprint)
}

// ChatAttempts returns the key for the per-chat generation counter
func (k *Keys) ChatAttempts(chatCode, fingerprint string) string {
	return fmt.Sprintf("%ssuggest_limit:%s:%s", k.prefix, chatCode, fingerprint)
}

// RecentSuggestions returns the key for a chat's recently suggested names
func (k *Keys) RecentSuggestions(chatCode string) string {
	return fmt.Sprintf("%schat:%s:recent_suggestions", k.prefix, chatCode)
}

// RotationIndex returns the key for a fingerprint's candidate-pool cursor
func (k *Keys) RotationIndex(fingerprint string) string {
	return fmt.Sprintf("%srotation_index:%s", k.prefix, fingerprint)
}

// Patterns returns the glob patterns covering every key family the
// engine owns, in the order the maintenance reset reports them.
func (k *Keys) Patterns() []string {
	return []string{
		k.prefix + "generated_for_fingerprint:*",
		k.prefix + "reserved:*",
		k.prefix + "generation_attempts:*",
		k.prefix + "chat:*:recent_suggestions",
		k.prefix + "suggest_limit:*",
		k.prefix + "rotation_index:*",
	}
}
