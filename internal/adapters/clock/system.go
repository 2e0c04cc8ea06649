package clock

import (
	"sync"
	"time"
)

// SystemClock reads the wall clock
type SystemClock struct{}

// NewSystemClock creates a SystemClock
func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant until moved
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixedClock creates a FixedClock at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
