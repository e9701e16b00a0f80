package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "source_final.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "✓")
	assert.Contains(t, output, "2 node(s)")
	assert.Contains(t, output, "1 relationship(s)")
}

func TestValidateReportsCycles(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "cycle.json")})

	err := cmd.Execute()
	require.NoError(t, err, "a cyclic graph still decodes and builds")
	assert.Contains(t, buf.String(), "cycle: [1 2]")
}

func TestValidateRejectsMissingData(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "missing_data.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "✗")
}

func TestValidateSchemaCatchesMisspelledField(t *testing.T) {
	file := filepath.Join("testdata", "misspelled_field.json")

	// The permissive JSON decode shrugs the misspelled key off.
	plain := NewValidateCommand(&RootOptions{Format: "text"})
	plain.SetOut(&bytes.Buffer{})
	plain.SetArgs([]string{file})
	require.NoError(t, plain.Execute())

	// The CUE schema does not.
	buf := &bytes.Buffer{}
	strict := NewValidateCommand(&RootOptions{Format: "text"})
	strict.SetOut(buf)
	strict.SetArgs([]string{file, "--schema"})

	err := strict.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "schema check")
}

func TestValidateJSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "source_final.json")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	reports, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, reports, 1)
	report, ok := reports[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, report["valid"])
	assert.Equal(t, float64(2), report["nodes"])
}

func TestValidateUnreadableFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "no_such_file.json")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "✗")
}
