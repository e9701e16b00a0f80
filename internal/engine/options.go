package engine

import (
	"log/slog"
	"time"
)

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClock replaces the system clock. Tests and replay pass a
// testutil.ManualClock.
func WithClock(clock Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithDebounceDuration sets the initial debounce cooldown. The default is
// 10 seconds. The knob stays mutable afterwards via SetDebounceDuration.
func WithDebounceDuration(d time.Duration) Option {
	return func(e *Engine) { e.debounce = d }
}

// WithLogger replaces slog.Default() as the engine's diagnostic logger.
// Tracing is advisory only: a quiet logger never alters results.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPassTokens replaces the UUIDv7 pass token generator, e.g. with a
// SequenceGenerator for deterministic traces.
func WithPassTokens(gen PassTokenGenerator) Option {
	return func(e *Engine) { e.tokens = gen }
}

// WithDecisionObserver registers a callback that receives the enriched
// Decision record alongside every sink invocation. Used by the journal and
// the scenario harness; the observer is invoked synchronously, after the
// sink.
func WithDecisionObserver(fn func(Decision)) Option {
	return func(e *Engine) { e.observer = fn }
}
