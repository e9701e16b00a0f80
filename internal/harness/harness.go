package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mwestra/relogic/internal/engine"
	"github.com/mwestra/relogic/internal/testutil"
	"github.com/mwestra/relogic/internal/wire"
)

// Event is one decision observed during a scenario run, timed as an offset
// from the scenario's start.
type Event struct {
	Device int      `json:"device"`
	Value  bool     `json:"value"`
	Path   string   `json:"path"`
	At     Duration `json:"at"`
}

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string
	Events   []Event
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// Run executes a scenario: a fresh engine under a manual clock, the
// configured devices loaded, the timeline played step by step, and the
// observed decisions checked against the expectations.
func Run(scenario *Scenario) (*Result, error) {
	start := time.Unix(0, 0).UTC()
	clock := testutil.NewManualClock(start)

	result := &Result{Scenario: scenario.Name}

	opts := []engine.Option{
		engine.WithClock(clock),
		engine.WithPassTokens(&engine.SequenceGenerator{}),
		engine.WithDecisionObserver(func(d engine.Decision) {
			result.Events = append(result.Events, Event{
				Device: d.DeviceID,
				Value:  d.Value,
				Path:   string(d.Path),
				At:     Duration(d.At.Sub(start)),
			})
		}),
	}
	if scenario.Debounce > 0 {
		opts = append(opts, engine.WithDebounceDuration(time.Duration(scenario.Debounce)))
	}
	eng := engine.New(engine.DecisionFunc(func(int, bool) {}), opts...)

	for _, dev := range scenario.Devices {
		payload, err := os.ReadFile(dev.Config)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: read config: %w", scenario.Name, err)
		}
		if err := eng.LoadConfig(dev.ID, payload); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	for i, step := range scenario.Timeline {
		clock.Set(start.Add(time.Duration(step.At)))
		if step.Update != nil {
			payload, err := updatePayload(step.Update)
			if err != nil {
				return nil, fmt.Errorf("scenario %s: timeline[%d]: %w", scenario.Name, i, err)
			}
			if err := eng.UpdateValues(payload); err != nil {
				return nil, fmt.Errorf("scenario %s: timeline[%d]: %w", scenario.Name, i, err)
			}
		}
		if step.Sweep {
			eng.ProcessPending()
		}
	}

	checkExpectations(scenario, result)
	return result, nil
}

// updatePayload renders an update step into the engine's wire format.
func updatePayload(step *UpdateStep) ([]byte, error) {
	upd := wire.ValueUpdate{}
	for _, r := range step.Readings {
		v, err := wireValue(r.Value)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", r.Source, err)
		}
		upd.Readings = append(upd.Readings, wire.Reading{SourceID: r.Source, Value: v})
	}
	return json.Marshal(upd)
}

// wireValue tags a YAML scalar as the engine's value kind.
func wireValue(v any) (wire.Value, error) {
	switch val := v.(type) {
	case bool:
		return wire.Boolean(val), nil
	case int:
		return wire.Number(float64(val)), nil
	case int64:
		return wire.Number(float64(val)), nil
	case float64:
		return wire.Number(val), nil
	case string:
		return wire.Text(val), nil
	default:
		return nil, fmt.Errorf("unsupported reading value of type %T", v)
	}
}

func checkExpectations(scenario *Scenario, result *Result) {
	if scenario.Expect == nil {
		return
	}
	for i, exp := range scenario.Expect {
		if i >= len(result.Events) {
			result.Failures = append(result.Failures, fmt.Sprintf(
				"expected event %d (device=%d value=%v path=%s at=%s) never happened",
				i+1, exp.Device, exp.Value, exp.Path, exp.At))
			continue
		}
		got := result.Events[i]
		if got.Device != exp.Device || got.Value != exp.Value ||
			got.Path != exp.Path || got.At != exp.At {
			result.Failures = append(result.Failures, fmt.Sprintf(
				"event %d: expected device=%d value=%v path=%s at=%s, got device=%d value=%v path=%s at=%s",
				i+1, exp.Device, exp.Value, exp.Path, exp.At,
				got.Device, got.Value, got.Path, got.At))
		}
	}
	if len(result.Events) > len(scenario.Expect) {
		for _, got := range result.Events[len(scenario.Expect):] {
			result.Failures = append(result.Failures, fmt.Sprintf(
				"unexpected event: device=%d value=%v path=%s at=%s",
				got.Device, got.Value, got.Path, got.At))
		}
	}
}
