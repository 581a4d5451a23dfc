// Package namegen produces deterministic adjective+noun usernames from
// a fingerprint and its rotation index.
package namegen

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Two-digit suffixes multiply the visible pool without pushing any
// candidate past the 15 character cap.
const (
	suffixSpan = 90
	suffixMin  = 10
)

// stride walks the pool in a fixed permutation. It is coprime to the
// pool size, so a fingerprint cycles through every candidate before
// seeing a repeat.
const stride = 7919

// Generator maps (fingerprint, rotation index) pairs onto a wide pool
// of candidate usernames. It is pure: the same inputs always produce
// the same candidate, regardless of which service instance runs it.
type Generator struct {
	adjectives []string
	nouns      []string
}

// New creates a Generator over the built-in word lists
func New() *Generator {
	return &Generator{
		adjectives: adjectives,
		nouns:      nouns,
	}
}

// PoolSize returns the number of distinct candidates
func (g *Generator) PoolSize() int {
	return len(g.adjectives) * len(g.nouns) * suffixSpan
}

// Candidate returns the candidate at a fingerprint's rotation index.
// The fingerprint hash offsets each client into a different region of
// the pool so concurrent first-time requests rarely land on the same
// name; uniqueness is still enforced by the reservation ledger, never
// assumed here.
func (g *Generator) Candidate(fingerprint string, rotation int64) string {
	size := uint64(g.PoolSize())
	seed := xxhash.Sum64String(fingerprint) % size
	k := (seed + uint64(rotation)*stride) % size

	adj := g.adjectives[k%uint64(len(g.adjectives))]
	k /= uint64(len(g.adjectives))
	noun := g.nouns[k%uint64(len(g.nouns))]
	k /= uint64(len(g.nouns))
	suffix := suffixMin + int(k%suffixSpan)

	return adj + noun + strconv.Itoa(suffix)
}
