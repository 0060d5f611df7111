package testutil

import (
	"sync"
	"time"
)

// TickingClock is a deterministic clock for tests: every call advances a
// fixed base time by one second, so change log timestamps come out in a
// stable, ordered sequence.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type TickingClock struct {
	mu   sync.Mutex
	base time.Time
	n    int
}

// NewTickingClock creates a clock based at 2025-06-01T12:00:00Z.
// The first call to Now() returns base+1s.
func NewTickingClock() *TickingClock {
	return &TickingClock{base: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

// Now advances the clock one second and returns the new time.
func (c *TickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.base.Add(time.Duration(c.n) * time.Second)
}

// Reset rewinds the clock so a scenario can run again with identical
// timestamps.
func (c *TickingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
}
