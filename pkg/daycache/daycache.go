// Package daycache provides an in-memory key-value cache whose entries are
// implicitly invalidated at the UTC day boundary. Instead of per-entry TTL
// timers, every write sweeps out entries belonging to any other calendar day,
// trading a cheap O(n) scan on writes for zero background goroutines.
package daycache

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current time. Injecting it keeps all day-boundary logic
// testable with a fixed instant.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the system time.
func SystemClock() Clock { return systemClock{} }

type entry struct {
	value     any
	day       string // UTC calendar day, YYYY-MM-DD
	createdAt time.Time
}

// Cache is a day-scoped cache keyed by (namespace, userID, UTC day, windowDays).
// Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]entry
}

// New creates an empty cache using the given clock.
func New(clock Clock) *Cache {
	if clock == nil {
		clock = SystemClock()
	}
	return &Cache{
		clock:   clock,
		entries: make(map[string]entry),
	}
}

// Get returns the cached value for (namespace, userID, windowDays) on the
// current UTC day. A miss is the normal compute-fresh path, not an error.
func (c *Cache) Get(namespace, userID string, windowDays int) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	day := c.clock.Now().UTC().Format("2006-01-02")
	e, ok := c.entries[key(namespace, userID, day, windowDays)]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores a value under the current UTC day. Before inserting, it deletes
// every entry from a different calendar day, so nothing survives past the UTC
// day boundary once any write happens on the new day.
func (c *Cache) Set(namespace, userID string, windowDays int, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().UTC()
	day := now.Format("2006-01-02")

	for k, e := range c.entries {
		if e.day != day {
			delete(c.entries, k)
		}
	}

	c.entries[key(namespace, userID, day, windowDays)] = entry{
		value:     value,
		day:       day,
		createdAt: now,
	}
}

// Len reports the number of live entries. Intended for tests and diagnostics.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ResetAt returns the next UTC midnight, the instant at which current entries
// become unreachable. Exposed for client-visible reset messaging.
func (c *Cache) ResetAt() time.Time {
	now := c.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

func key(namespace, userID, day string, windowDays int) string {
	return fmt.Sprintf("%s:%s:%s:%d", namespace, userID, day, windowDays)
}
