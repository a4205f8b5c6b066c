package daycache

import (
	"testing"
	"time"
)

// fakeClock is a manually-advanced clock for day-boundary tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func TestGetSetSameDay(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 28, 10, 0, 0, 0, time.UTC)}
	c := New(clock)

	if _, ok := c.Get("explain", "user-1", 28); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set("explain", "user-1", 28, "payload")

	got, ok := c.Get("explain", "user-1", 28)
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if got != "payload" {
		t.Fatalf("unexpected value: %v", got)
	}

	// Same user, different window is a distinct key
	if _, ok := c.Get("explain", "user-1", 7); ok {
		t.Fatalf("expected miss for different window")
	}
	// Different namespace is a distinct key
	if _, ok := c.Get("other", "user-1", 28); ok {
		t.Fatalf("expected miss for different namespace")
	}
}

func TestGetMissesAfterDayRollover(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 28, 23, 50, 0, 0, time.UTC)}
	c := New(clock)

	c.Set("explain", "user-1", 28, "payload")

	clock.now = time.Date(2024, 1, 29, 0, 10, 0, 0, time.UTC)
	if _, ok := c.Get("explain", "user-1", 28); ok {
		t.Fatalf("expected miss once the UTC day advanced")
	}
}

func TestSetSweepsOtherDays(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 28, 12, 0, 0, 0, time.UTC)}
	c := New(clock)

	c.Set("explain", "user-1", 28, "a")
	c.Set("explain", "user-2", 28, "b")
	if got := c.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}

	// A set on the next day sweeps all of yesterday's entries, not just the
	// key being written.
	clock.now = clock.now.AddDate(0, 0, 1)
	c.Set("explain", "user-3", 28, "c")

	if got := c.Len(); got != 1 {
		t.Fatalf("expected sweep to leave 1 entry, got %d", got)
	}
	if _, ok := c.Get("explain", "user-3", 28); !ok {
		t.Fatalf("expected the fresh entry to survive the sweep")
	}
}

func TestSetOverwrites(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 28, 12, 0, 0, 0, time.UTC)}
	c := New(clock)

	c.Set("explain", "user-1", 28, "old")
	c.Set("explain", "user-1", 28, "new")

	got, ok := c.Get("explain", "user-1", 28)
	if !ok || got != "new" {
		t.Fatalf("expected overwrite, got %v (hit=%v)", got, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("expected a single entry after overwrite, got %d", c.Len())
	}
}

func TestResetAt(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 28, 17, 42, 13, 0, time.UTC)}
	c := New(clock)

	want := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	if got := c.ResetAt(); !got.Equal(want) {
		t.Fatalf("ResetAt() = %v, want %v", got, want)
	}
}
