package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return scenario
}

func TestRunOscillationScenario(t *testing.T) {
	scenario := loadTestScenario(t, "oscillation.yaml")

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Passed(), "failures: %v", result.Failures)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "immediate", result.Events[0].Path)
	assert.Equal(t, "deferred", result.Events[1].Path)
}

func TestRunAndGateScenario(t *testing.T) {
	scenario := loadTestScenario(t, "and_gate.yaml")

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Passed(), "failures: %v", result.Failures)
	require.Len(t, result.Events, 2)
	assert.False(t, result.Events[0].Value)
	assert.True(t, result.Events[1].Value)
}

func TestRunReportsUnmetExpectations(t *testing.T) {
	scenario := loadTestScenario(t, "oscillation.yaml")

	// Tighten the expectations so the run must fail: claim the deferred
	// decision lands a second early.
	scenario.Expect[1].At = scenario.Expect[0].At

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "event 2")
}

func TestRunRejectsNonScalarReading(t *testing.T) {
	scenario := loadTestScenario(t, "oscillation.yaml")
	scenario.Timeline[0].Update.Readings[0].Value = []any{1, 2}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported reading value")
}

func TestGoldenTraces(t *testing.T) {
	for _, name := range []string{"oscillation.yaml", "and_gate.yaml"} {
		t.Run(name, func(t *testing.T) {
			scenario := loadTestScenario(t, name)
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed(), "failures: %v", result.Failures)
		})
	}
}
