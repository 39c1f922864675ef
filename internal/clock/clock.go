package clock

import (
	"sync"
	"time"
)

// Clock abstracts the current time so that due-date comparisons and report
// period defaults can be fixed deterministically in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns a Clock backed by the wall clock in UTC
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a Clock frozen at a settable instant
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock returns a Clock frozen at the given instant
func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// SetNow moves the frozen instant
func (c *FixedClock) SetNow(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now.UTC()
}

// Advance moves the frozen instant forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
