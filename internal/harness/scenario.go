// Package harness runs declarative YAML scenarios against a real engine
// under a manual clock: load device configs, play a timeline of value
// updates and maintenance sweeps, and check the decisions that come out.
// It backs the `relogic simulate` command and the golden trace tests.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so scenario files can say "10s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalJSON renders the duration as its string form ("4s"), which keeps
// golden traces readable.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Duration(d).String())), nil
}

func (d Duration) String() string { return time.Duration(d).String() }

// Scenario is one scenario file.
type Scenario struct {
	// Name uniquely identifies the scenario; golden traces are stored
	// under it.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Debounce is the engine cooldown for the run. Zero keeps the engine
	// default.
	Debounce Duration `yaml:"debounce,omitempty"`

	// Devices lists the logic configs to load, with paths relative to the
	// scenario file.
	Devices []DeviceConfig `yaml:"devices"`

	// Timeline is the ordered sequence of clock-pinned steps to play.
	Timeline []Step `yaml:"timeline"`

	// Expect lists the decision events the run must produce, in order.
	// Optional: golden-trace scenarios may rely on the snapshot alone.
	Expect []Expectation `yaml:"expect,omitempty"`
}

// DeviceConfig binds a device id to its logic configuration file.
type DeviceConfig struct {
	ID     int    `yaml:"id"`
	Config string `yaml:"config"`
}

// Step is one timeline entry: pin the clock to At, then apply an update, a
// sweep, or both (update first, matching a host that sweeps after feeding).
type Step struct {
	At     Duration    `yaml:"at"`
	Update *UpdateStep `yaml:"update,omitempty"`
	Sweep  bool        `yaml:"sweep,omitempty"`
}

// UpdateStep is a batch of external readings.
type UpdateStep struct {
	Readings []Reading `yaml:"readings"`
}

// Reading is one external value: Value may be a YAML bool, number, or
// string, mirroring what the wire format accepts.
type Reading struct {
	Source int `yaml:"source"`
	Value  any `yaml:"value"`
}

// Expectation is one expected decision event.
type Expectation struct {
	Device int      `yaml:"device"`
	Value  bool     `yaml:"value"`
	At     Duration `yaml:"at"`
	Path   string   `yaml:"path"`
}

// LoadScenario reads and validates a scenario file. Device config paths
// are resolved relative to the scenario file's directory. Unknown YAML
// fields are rejected to catch typos.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	base := filepath.Dir(path)
	for i, dev := range scenario.Devices {
		if !filepath.IsAbs(dev.Config) {
			scenario.Devices[i].Config = filepath.Join(base, dev.Config)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Devices) == 0 {
		return fmt.Errorf("devices list is required and must be non-empty")
	}
	for i, dev := range s.Devices {
		if dev.Config == "" {
			return fmt.Errorf("devices[%d]: config is required", i)
		}
		if _, err := os.Stat(dev.Config); err != nil {
			return fmt.Errorf("devices[%d]: config file not found: %s", i, dev.Config)
		}
	}
	if len(s.Timeline) == 0 {
		return fmt.Errorf("timeline is required and must be non-empty")
	}
	prev := Duration(-1)
	for i, step := range s.Timeline {
		if step.Update == nil && !step.Sweep {
			return fmt.Errorf("timeline[%d]: step must have an update or sweep", i)
		}
		if step.At < prev {
			return fmt.Errorf("timeline[%d]: steps must not move backwards in time", i)
		}
		prev = step.At
	}
	for i, exp := range s.Expect {
		if exp.Path != "immediate" && exp.Path != "deferred" {
			return fmt.Errorf("expect[%d]: path must be \"immediate\" or \"deferred\"", i)
		}
	}
	return nil
}
