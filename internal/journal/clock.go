package journal

import (
	"sync"
	"time"
)

// LatchedClock is the engine clock a journaling host should use: it reads
// the wall clock once per host step (Latch) and serves that reading until
// the next step.
//
// Latching makes the journal losslessly replayable. The timestamp written
// to the events table and every clock read the engine performs while
// handling that event are the same instant, truncated to the millisecond
// the journal stores, so Replay can pin its manual clock to the recorded
// value and reproduce every debounce comparison exactly.
type LatchedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewLatchedClock creates a clock latched to the current wall time.
func NewLatchedClock() *LatchedClock {
	c := &LatchedClock{}
	c.Latch()
	return c
}

// Latch advances the clock to the current wall time and returns it.
func (c *LatchedClock) Latch() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Now().UTC().Truncate(time.Millisecond)
	return c.now
}

// Now returns the last latched reading.
func (c *LatchedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}
