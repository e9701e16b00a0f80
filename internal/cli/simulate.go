package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwestra/relogic/internal/harness"
)

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <scenario.yaml> [more scenarios...]",
		Short: "Run timed scenarios against a fresh engine",
		Long: `Play each scenario's timeline against a fresh engine under a simulated
clock and check the observed decisions against the scenario's expectations.
Exits non-zero if any expectation fails.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runSimulate(opts *RootOptions, files []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	type scenarioReport struct {
		Scenario string          `json:"scenario"`
		Passed   bool            `json:"passed"`
		Events   []harness.Event `json:"events"`
		Failures []string        `json:"failures,omitempty"`
	}

	reports := make([]scenarioReport, 0, len(files))
	failed := 0
	for _, file := range files {
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			return WrapExitError(ExitCommandError, "load scenario", err)
		}
		result, err := harness.Run(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("run scenario %s", scenario.Name), err)
		}
		if !result.Passed() {
			failed++
		}
		reports = append(reports, scenarioReport{
			Scenario: result.Scenario,
			Passed:   result.Passed(),
			Events:   result.Events,
			Failures: result.Failures,
		})
	}

	if opts.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, r := range reports {
			if r.Passed {
				fmt.Fprintf(out, "✓ %s  (%d event(s))\n", r.Scenario, len(r.Events))
				continue
			}
			fmt.Fprintf(out, "✗ %s\n", r.Scenario)
			for _, f := range r.Failures {
				fmt.Fprintf(out, "    %s\n", f)
			}
		}
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", failed, len(reports)))
	}
	return nil
}
