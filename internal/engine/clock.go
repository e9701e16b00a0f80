package engine

import "time"

// Clock supplies the time read at the start of each debounce decision and
// each maintenance sweep. Production uses the system clock;
// testutil.ManualClock pins time for tests, the scenario harness, and
// journal replay.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }
