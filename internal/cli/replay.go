package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwestra/relogic/internal/engine"
	"github.com/mwestra/relogic/internal/journal"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	DBPath     string
	ConfigsDir string
	Debounce   time.Duration
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-drive a recorded journal and check for divergence",
		Long: `Re-drive every journaled event through a fresh engine, pinning the clock
to each event's recorded timestamp, and compare the resulting decisions
against the recorded ones. Exits non-zero on divergence.

The configs directory must hold the same <deviceID>.json files the
recording run used.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "journal database to replay (required)")
	cmd.Flags().StringVar(&opts.ConfigsDir, "configs", "", "directory of <deviceID>.json logic configs (required)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", engine.DefaultDebounceDuration, "debounce duration used by the recording run")
	cmd.MarkFlagRequired("db")
	cmd.MarkFlagRequired("configs")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	configs, err := loadDeviceConfigs(opts.ConfigsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configs", err)
	}

	j, err := journal.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "open journal", err)
	}
	defer j.Close()

	result, err := journal.Replay(j, configs, opts.Debounce)
	if err != nil {
		return WrapExitError(ExitCommandError, "replay", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		if result.Identical {
			fmt.Fprintf(out, "✓ replay identical  (%d event(s), %d decision(s))\n",
				result.Events, result.Recorded)
		} else {
			fmt.Fprintf(out, "✗ replay diverged\n    %s\n", result.Divergence)
		}
	}

	if !result.Identical {
		return NewExitError(ExitFailure, "replay diverged from the recorded decisions")
	}
	return nil
}

// loadDeviceConfigs reads every <deviceID>.json in dir. Non-numeric names
// are skipped so the directory can also hold notes or scenario files.
func loadDeviceConfigs(dir string) (map[int][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	configs := make(map[int][]byte)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		deviceID, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}
		payload, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		configs[deviceID] = payload
	}
	if len(configs) == 0 {
		return nil, fmt.Errorf("no <deviceID>.json configs in %s", dir)
	}
	return configs, nil
}
