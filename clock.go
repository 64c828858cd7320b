package reagent

import (
	"sync"
	"time"
)

// Clock supplies the current time to the loop and to time-aware tools. Inject a
// [FixedClock] in tests so event timestamps and clock tool output are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock returns a settable fixed time.
type FixedClock struct {
	mu sync.RWMutex
	t  time.Time
}

// NewFixedClock creates a FixedClock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the fixed time.
func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var (
	_ Clock = SystemClock{}
	_ Clock = (*FixedClock)(nil)
)
