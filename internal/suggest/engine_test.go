package suggest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/robertddewey/chatpop/internal/config"
	"github.com/robertddewey/chatpop/internal/namegen"
	"github.com/robertddewey/chatpop/internal/storage"
	"github.com/robertddewey/chatpop/internal/username"
	"github.com/rs/zerolog"
)

func getTestClient(t *testing.T) *storage.Client {
	t.Helper()

	cfg := config.RedisConfig{
		Address:   "localhost:6379",
		DB:        14,
		KeyPrefix: "test:",
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	// Clean test database
	ctx := context.Background()
	client.Redis().FlushDB(ctx)

	return client
}

func testLimits() Limits {
	return Limits{
		MaxGlobal:         10,
		MaxPerChat:        5,
		Window:            time.Minute,
		ReservationTTL:    time.Minute,
		MaxReserveRetries: 25,
	}
}

func newTestEngine(t *testing.T, client *storage.Client, limits Limits, candidates Candidates) *Engine {
	t.Helper()

	if candidates == nil {
		candidates = namegen.New()
	}

	engine, err := New(client, candidates, username.NewValidator(nil), limits, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return engine
}

// sharedFirst hands every fingerprint the same candidate on its first
// rotation, then fingerprint-specific names
type sharedFirst struct{}

func (sharedFirst) Candidate(fingerprint string, rotation int64) string {
	if rotation == 1 {
		return "SharedName42"
	}
	return fmt.Sprintf("User_%s_%d", fingerprint, rotation)
}

func (sharedFirst) PoolSize() int { return 1000 }

// constant always returns the same candidate
type constant struct{}

func (constant) Candidate(fingerprint string, rotation int64) string { return "OnlyName77" }
func (constant) PoolSize() int                                       { return 1 }

func TestEngine_SuggestScenario(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	engine := newTestEngine(t, client, testLimits(), nil)
	ctx := context.Background()

	granted := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		result, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"})
		if err != nil {
			t.Fatalf("Suggest() %d error = %v", i+1, err)
		}
		if want := 9 - i; result.Remaining != want {
			t.Errorf("Suggest() %d Remaining = %d, want %d", i+1, result.Remaining, want)
		}
		if len(result.Username) < 5 || len(result.Username) > 15 {
			t.Errorf("Suggest() %d username %q outside length bounds", i+1, result.Username)
		}
		granted = append(granted, result.Username)
	}

	// All granted names must be distinct
	seen := make(map[string]bool)
	for _, name := range granted {
		if seen[strings.ToLower(name)] {
			t.Errorf("duplicate username granted: %q", name)
		}
		seen[strings.ToLower(name)] = true
	}

	// 11th call: denied with the full recovery payload, sorted
	_, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"})
	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("11th Suggest() error = %v, want *RateLimitedError", err)
	}
	if limited.Scope != "global" {
		t.Errorf("Scope = %q, want %q", limited.Scope, "global")
	}
	if len(limited.Previous) != 10 {
		t.Errorf("len(Previous) = %d, want 10", len(limited.Previous))
	}
	if !sort.SliceIsSorted(limited.Previous, func(i, j int) bool {
		return strings.ToLower(limited.Previous[i]) < strings.ToLower(limited.Previous[j])
	}) {
		t.Errorf("Previous not sorted: %v", limited.Previous)
	}
}

func TestEngine_CollisionRotation(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	engine := newTestEngine(t, client, testLimits(), sharedFirst{})
	ctx := context.Background()

	first, err := engine.Suggest(ctx, Request{Fingerprint: "aa"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if first.Username != "SharedName42" {
		t.Fatalf("first username = %q, want %q", first.Username, "SharedName42")
	}

	// Second fingerprint collides on the shared candidate and must be
	// rotated onto a different one
	second, err := engine.Suggest(ctx, Request{Fingerprint: "bb"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if second.Username == "SharedName42" {
		t.Fatal("second fingerprint received an already-reserved username")
	}

	// Store state shows one owner for the shared name
	owner, err := NewLedger(client, time.Minute).Owner(ctx, "sharedname42")
	if err != nil {
		t.Fatalf("Owner() error = %v", err)
	}
	if owner != "aa" {
		t.Errorf("Owner() = %q, want %q", owner, "aa")
	}
}

func TestEngine_ScopeIndependence(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	limits := testLimits()
	limits.MaxPerChat = 2
	limits.MaxGlobal = 10

	engine := newTestEngine(t, client, limits, nil)
	ctx := context.Background()

	// Exhaust chat A
	for i := 0; i < 2; i++ {
		if _, err := engine.Suggest(ctx, Request{Fingerprint: "fp1", ChatCode: "A"}); err != nil {
			t.Fatalf("Suggest() in chat A error = %v", err)
		}
	}

	_, err := engine.Suggest(ctx, Request{Fingerprint: "fp1", ChatCode: "A"})
	var limited *RateLimitedError
	if !errors.As(err, &limited) || limited.Scope != "chat" {
		t.Fatalf("chat A should deny with chat scope, got %v", err)
	}

	// Chat B is unaffected
	if _, err := engine.Suggest(ctx, Request{Fingerprint: "fp1", ChatCode: "B"}); err != nil {
		t.Fatalf("Suggest() in chat B error = %v", err)
	}

	// Exhaust the global ceiling from fresh chats
	limits.MaxGlobal = 4
	engine = newTestEngine(t, client, limits, nil)

	_, err = engine.Suggest(ctx, Request{Fingerprint: "fp1", ChatCode: "C"})
	if err != nil {
		t.Fatalf("Suggest() in chat C error = %v", err)
	}

	// Global count is now 4; every chat is denied
	_, err = engine.Suggest(ctx, Request{Fingerprint: "fp1", ChatCode: "D"})
	if !errors.As(err, &limited) || limited.Scope != "global" {
		t.Fatalf("global exhaustion should deny with global scope, got %v", err)
	}
}

func TestEngine_ChatDiversity(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	engine := newTestEngine(t, client, testLimits(), sharedFirst{})
	ctx := context.Background()

	first, err := engine.Suggest(ctx, Request{Fingerprint: "aa", ChatCode: "ROOM1"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	second, err := engine.Suggest(ctx, Request{Fingerprint: "bb", ChatCode: "ROOM1"})
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	if first.Username == second.Username {
		t.Errorf("same room suggested %q twice", first.Username)
	}
}

func TestEngine_PoolExhausted(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	limits := testLimits()
	limits.MaxReserveRetries = 3

	engine := newTestEngine(t, client, limits, constant{})
	ctx := context.Background()

	// Another fingerprint owns the only candidate
	if _, err := NewLedger(client, time.Minute).TryReserve(ctx, "OnlyName77", "other"); err != nil {
		t.Fatalf("TryReserve() error = %v", err)
	}

	_, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"})
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("Suggest() error = %v, want ErrPoolExhausted", err)
	}
}

func TestEngine_MissingFingerprint(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	engine := newTestEngine(t, client, testLimits(), nil)

	_, err := engine.Suggest(context.Background(), Request{Fingerprint: "   "})
	var vErr *username.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Suggest() error = %v, want *ValidationError", err)
	}
}

func TestEngine_ExpirySelfHeals(t *testing.T) {
	client := getTestClient(t)
	defer client.Close()

	limits := testLimits()
	limits.MaxGlobal = 1
	limits.Window = time.Second
	limits.ReservationTTL = time.Second

	engine := newTestEngine(t, client, limits, nil)
	ctx := context.Background()

	if _, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"}); err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}

	var limited *RateLimitedError
	_, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"})
	if !errors.As(err, &limited) {
		t.Fatalf("second Suggest() error = %v, want *RateLimitedError", err)
	}

	time.Sleep(1500 * time.Millisecond)

	// Everything expired; a fresh request behaves as first-time
	result, err := engine.Suggest(ctx, Request{Fingerprint: "fp1"})
	if err != nil {
		t.Fatalf("Suggest() after expiry error = %v", err)
	}
	if result.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0 (ceiling 1)", result.Remaining)
	}

	previous, err := engine.Previous(ctx, "fp1")
	if err != nil {
		t.Fatalf("Previous() error = %v", err)
	}
	if len(previous) != 1 {
		t.Errorf("len(Previous()) = %d, want 1 (old history expired)", len(previous))
	}
}
