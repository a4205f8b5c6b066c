// Package quota enforces a per-user daily allowance for externally-priced
// operations. Counters are keyed by (userID, UTC calendar day) and reset
// implicitly at UTC midnight because the day is part of the key.
package quota

import (
	"sync"
	"time"
)

const (
	// housekeepingInterval is how many Consume calls pass between sweeps of
	// stale counters. Best-effort hygiene: stale counters for past days are
	// harmless, just unbounded in count.
	housekeepingInterval = 200

	// retentionDays is how long counters for past days are kept before a
	// housekeeping sweep removes them.
	retentionDays = 3
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the system time.
func SystemClock() Clock { return systemClock{} }

// Result reports the outcome of a Consume call.
type Result struct {
	Allowed bool
	Limit   int
	Used    int
	ResetAt time.Time
}

type counter struct {
	day  time.Time // UTC midnight of the counted day
	used int
}

// Enforcer tracks per-user daily usage. Consume is serialized by a mutex, so
// the quota is exact even under concurrent bursts for the same user.
type Enforcer struct {
	mu       sync.Mutex
	clock    Clock
	counters map[string]counter
	calls    int
}

// New creates an Enforcer using the given clock.
func New(clock Clock) *Enforcer {
	if clock == nil {
		clock = SystemClock()
	}
	return &Enforcer{
		clock:    clock,
		counters: make(map[string]counter),
	}
}

// Consume attempts to use one unit of the user's daily allowance. When the
// limit is already reached it returns Allowed=false and leaves usage
// unchanged. A limit of zero means the feature is disabled and must be
// rejected by the caller before reaching this point.
func (e *Enforcer) Consume(userID string, limit int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	key := userID + ":" + day.Format("2006-01-02")

	e.calls++
	if e.calls%housekeepingInterval == 0 {
		e.sweep(day)
	}

	used := e.counters[key].used
	resetAt := day.AddDate(0, 0, 1)

	if used+1 > limit {
		return Result{Allowed: false, Limit: limit, Used: used, ResetAt: resetAt}
	}

	used++
	e.counters[key] = counter{day: day, used: used}
	return Result{Allowed: true, Limit: limit, Used: used, ResetAt: resetAt}
}

// ResetAt returns the next UTC midnight.
func (e *Enforcer) ResetAt() time.Time {
	now := e.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// sweep removes counters older than the retention window. Caller holds the lock.
func (e *Enforcer) sweep(today time.Time) {
	cutoff := today.AddDate(0, 0, -retentionDays)
	for k, c := range e.counters {
		if c.day.Before(cutoff) {
			delete(e.counters, k)
		}
	}
}
