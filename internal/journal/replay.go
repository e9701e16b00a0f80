package journal

import (
	"fmt"
	"time"

	"github.com/mwestra/relogic/internal/engine"
	"github.com/mwestra/relogic/internal/testutil"
)

// ReplayResult reports whether re-driving the journal reproduced the
// recorded decision sequence.
type ReplayResult struct {
	Events     int
	Recorded   int
	Replayed   int
	Identical  bool
	Divergence string // empty when identical
}

// nullSink discards decisions; replay observes them through the richer
// decision observer instead.
type nullSink struct{}

func (nullSink) OnDecision(int, bool) {}

// Replay re-drives the journaled events, in order, through a fresh engine
// whose clock is pinned to each event's recorded timestamp, and compares
// the decisions that come out against the decisions that were recorded.
//
// A deterministic engine must reproduce the sequence exactly: same devices,
// same values, same paths, same timestamps. Pass ids are freshly generated
// and deliberately not compared.
func Replay(j *Journal, configs map[int][]byte, debounce time.Duration) (*ReplayResult, error) {
	events, err := j.Events()
	if err != nil {
		return nil, err
	}
	recorded, err := j.Decisions()
	if err != nil {
		return nil, err
	}

	clock := testutil.NewManualClock(time.Unix(0, 0).UTC())
	var replayed []DecisionRecord

	eng := engine.New(nullSink{},
		engine.WithClock(clock),
		engine.WithDebounceDuration(debounce),
		engine.WithDecisionObserver(func(d engine.Decision) {
			replayed = append(replayed, DecisionRecord{
				DeviceID: d.DeviceID,
				Value:    d.Value,
				Path:     string(d.Path),
				At:       d.At.UTC(),
			})
		}))

	for deviceID, payload := range configs {
		if err := eng.LoadConfig(deviceID, payload); err != nil {
			return nil, fmt.Errorf("replay: %w", err)
		}
	}

	for _, ev := range events {
		clock.Set(ev.At)
		switch ev.Kind {
		case KindUpdate:
			if err := eng.UpdateValues(ev.Payload); err != nil {
				return nil, fmt.Errorf("replay event %d: %w", ev.Seq, err)
			}
		case KindSweep:
			eng.ProcessPending()
		default:
			return nil, fmt.Errorf("replay event %d: unknown kind %q", ev.Seq, ev.Kind)
		}
	}

	result := &ReplayResult{
		Events:    len(events),
		Recorded:  len(recorded),
		Replayed:  len(replayed),
		Identical: true,
	}
	if len(replayed) != len(recorded) {
		result.Identical = false
		result.Divergence = fmt.Sprintf("recorded %d decision(s), replay produced %d", len(recorded), len(replayed))
		return result, nil
	}
	for i := range recorded {
		want, got := recorded[i], replayed[i]
		if want.DeviceID != got.DeviceID || want.Value != got.Value ||
			want.Path != got.Path || !want.At.Equal(got.At) {
			result.Identical = false
			result.Divergence = fmt.Sprintf(
				"decision %d diverged: recorded device=%d value=%v path=%s at=%s, replayed device=%d value=%v path=%s at=%s",
				i+1,
				want.DeviceID, want.Value, want.Path, want.At.Format(time.RFC3339Nano),
				got.DeviceID, got.Value, got.Path, got.At.Format(time.RFC3339Nano))
			return result, nil
		}
	}
	return result, nil
}
