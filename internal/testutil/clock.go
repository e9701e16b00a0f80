// Package testutil provides deterministic test doubles shared by the unit
// tests, the scenario harness, and journal replay.
package testutil

import (
	"sync"
	"time"
)

// ManualClock is a clock whose time only moves when the test moves it.
//
// It satisfies engine.Clock and makes debounce behavior fully
// deterministic: a scenario advances the clock explicitly between steps
// instead of sleeping.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock pinned at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current pinned time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set pins the clock to t. Moving backwards is allowed; the engine never
// requires monotonicity from its clock, only the tests' discipline.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
