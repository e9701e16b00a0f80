package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mwestra/relogic/internal/engine"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	DeviceID int
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect <config.json>",
		Short: "Print a logic graph in human-readable form",
		Long: `Load one logic configuration and dump the resulting graph: every node
with its operator, inputs, outputs, and the relationships feeding it, plus
the evaluation order the engine would use.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.DeviceID, "device", 1, "device id to build the graph under")

	return cmd
}

func runInspect(opts *InspectOptions, file string, cmd *cobra.Command) error {
	payload, err := os.ReadFile(file)
	if err != nil {
		return WrapExitError(ExitCommandError, "read config", err)
	}

	eng := engine.New(engine.DecisionFunc(func(int, bool) {}))
	if err := eng.LoadConfig(opts.DeviceID, payload); err != nil {
		return WrapExitError(ExitFailure, "load config", err)
	}
	return eng.Describe(opts.DeviceID, cmd.OutOrStdout())
}
