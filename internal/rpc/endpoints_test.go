package rpc

import (
	"testing"
	"time"
)

func newTestEndpoints(urls []string, cooldown time.Duration) (*Endpoints, *time.Time) {
	e := NewEndpoints(urls, "https://fallback.example", cooldown)
	now := time.Unix(1_700_000_000, 0)
	e.now = func() time.Time { return now }
	return e, &now
}

func TestNextPrefersLeastRecentlyUsed(t *testing.T) {
	e, now := newTestEndpoints([]string{"a", "b", "c"}, time.Second)

	// Fresh set: all zero timestamps, idle time is huge, LRU wins (first).
	if got := e.Next(); got != "a" {
		t.Fatalf("first pick = %q, want a", got)
	}
	*now = now.Add(2 * time.Second)
	if got := e.Next(); got != "b" {
		t.Fatalf("second pick = %q, want b", got)
	}
	*now = now.Add(2 * time.Second)
	if got := e.Next(); got != "c" {
		t.Fatalf("third pick = %q, want c", got)
	}
}

func TestNextRotatesInsideCooldown(t *testing.T) {
	e, now := newTestEndpoints([]string{"a", "b", "c"}, time.Second)

	e.Next() // a used at t0
	*now = now.Add(10 * time.Millisecond)

	// b and c are still at their zero value and eligible, but after all
	// three are touched within the window the cursor must rotate.
	seen := map[string]bool{}
	for i := 0; i < 6; i++ {
		seen[e.Next()] = true
		*now = now.Add(10 * time.Millisecond)
	}
	if len(seen) != 3 {
		t.Errorf("rotation visited %d endpoints, want all 3: %v", len(seen), seen)
	}
}

func TestEmptySetFallsBack(t *testing.T) {
	e := NewEndpoints(nil, "https://fallback.example", time.Second)
	if got := e.Next(); got != "https://fallback.example" {
		t.Errorf("fallback = %q", got)
	}
}
