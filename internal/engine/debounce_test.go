package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// updateSource builds a value-update payload for external source 101.
func updateSource(value bool) []byte {
	return []byte(fmt.Sprintf(`{"sensorArray":[{"deviceId":101,"value":%v}]}`, value))
}

func TestDebounceOscillation(t *testing.T) {
	eng, sink, clock := newTestEngine(t)
	require.NoError(t, eng.LoadConfig(7, []byte(sourceToFinal)))

	// t=0: first decision commits immediately.
	require.NoError(t, eng.UpdateValues(updateSource(true)))
	require.Equal(t, []recordedDecision{{device: 7, value: true}}, sink.all())

	// t=2: flips inside the cooldown window. Oscillation: held, no callback.
	clock.Advance(2 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(false)))
	assert.Len(t, sink.all(), 1)

	// t=4: flips back. Still oscillating, still no callback.
	clock.Advance(2 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(true)))
	assert.Len(t, sink.all(), 1)

	// t=13: cooldown from the t=4 restamp has not elapsed yet.
	clock.Advance(9 * time.Second)
	eng.ProcessPending()
	assert.Len(t, sink.all(), 1)

	// t=14: cooldown elapsed; the sweep applies the deferred value.
	clock.Advance(1 * time.Second)
	eng.ProcessPending()
	require.Len(t, sink.all(), 2)
	assert.Equal(t, recordedDecision{device: 7, value: true}, sink.all()[1])

	// The entry is gone: nothing left to apply.
	eng.ProcessPending()
	assert.Len(t, sink.all(), 2)
}

func TestDebounceSameValueInsideCooldownIsDropped(t *testing.T) {
	eng, sink, clock := newTestEngine(t)
	require.NoError(t, eng.LoadConfig(7, []byte(sourceToFinal)))

	require.NoError(t, eng.UpdateValues(updateSource(true)))
	require.Len(t, sink.all(), 1)

	// Same value again at t=2: dropped, no state change.
	clock.Advance(2 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(true)))
	assert.Len(t, sink.all(), 1)

	// Same value at t=11, cooldown elapsed: commits again.
	clock.Advance(9 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(true)))
	assert.Len(t, sink.all(), 2)
}

func TestSweepNeverRefiresCommittedDecision(t *testing.T) {
	eng, sink, clock := newTestEngine(t)
	require.NoError(t, eng.LoadConfig(7, []byte(sourceToFinal)))

	require.NoError(t, eng.UpdateValues(updateSource(true)))
	require.Len(t, sink.all(), 1)

	// Long after the cooldown, the sweep clears the entry but must not
	// repeat the already-committed callback.
	clock.Advance(time.Minute)
	eng.ProcessPending()
	assert.Len(t, sink.all(), 1)
}

func TestSetDebounceDuration(t *testing.T) {
	eng, sink, clock := newTestEngine(t)
	require.NoError(t, eng.LoadConfig(7, []byte(sourceToFinal)))
	eng.SetDebounceDuration(2 * time.Second)

	require.NoError(t, eng.UpdateValues(updateSource(true)))
	require.Len(t, sink.all(), 1)

	// With the shorter cooldown a repeat at t=3 commits.
	clock.Advance(3 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(true)))
	assert.Len(t, sink.all(), 2)
}

func TestDecisionObserver(t *testing.T) {
	var seen []Decision
	eng, sink, clock := newTestEngine(t, WithDecisionObserver(func(d Decision) {
		seen = append(seen, d)
	}))
	require.NoError(t, eng.LoadConfig(7, []byte(sourceToFinal)))

	require.NoError(t, eng.UpdateValues(updateSource(true)))
	clock.Advance(2 * time.Second)
	require.NoError(t, eng.UpdateValues(updateSource(false)))
	clock.Advance(10 * time.Second)
	eng.ProcessPending()

	require.Len(t, sink.all(), 2)
	require.Len(t, seen, 2)

	assert.Equal(t, PathImmediate, seen[0].Path)
	assert.True(t, seen[0].Value)
	assert.True(t, seen[0].At.Equal(time.Unix(0, 0)))
	assert.NotEmpty(t, seen[0].PassID)

	assert.Equal(t, PathDeferred, seen[1].Path)
	assert.False(t, seen[1].Value)
	assert.True(t, seen[1].At.Equal(time.Unix(12, 0)))
}
