package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mwestra/relogic/internal/engine"
	"github.com/mwestra/relogic/internal/journal"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigsDir  string
	DBPath      string
	SweepEvery  time.Duration
	Debounce    time.Duration
	MetricsAddr string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine over JSON-lines updates on stdin",
		Long: `Load every <deviceID>.json config from the configs directory, then read
sensor update documents from stdin, one JSON object per line. A background
ticker runs the maintenance sweep. Decisions are printed to stdout as they
commit; with --db every input and decision is also journaled for later
replay. Stops on EOF, SIGINT, or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigsDir, "configs", "", "directory of <deviceID>.json logic configs (required)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "journal database path (journaling off when empty)")
	cmd.Flags().DurationVar(&opts.SweepEvery, "sweep-every", time.Second, "maintenance sweep interval")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", engine.DefaultDebounceDuration, "debounce duration")
	cmd.Flags().StringVar(&opts.MetricsAddr, "metrics-addr", "", "listen address for Prometheus /metrics (off when empty)")
	cmd.MarkFlagRequired("configs")

	return cmd
}

func runRun(ctx context.Context, opts *RunOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	configs, err := loadDeviceConfigs(opts.ConfigsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "load configs", err)
	}

	var j *journal.Journal
	if opts.DBPath != "" {
		j, err = journal.Open(opts.DBPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "open journal", err)
		}
		defer j.Close()
	}

	out := cmd.OutOrStdout()
	engOpts := []engine.Option{
		engine.WithDebounceDuration(opts.Debounce),
	}

	// With a journal, the engine reads a clock latched once per host step,
	// so the timestamps in the events table and in every debounce decision
	// line up for a bit-exact replay.
	var clock *journal.LatchedClock
	if j != nil {
		clock = journal.NewLatchedClock()
		engOpts = append(engOpts, engine.WithClock(clock))
		engOpts = append(engOpts, engine.WithDecisionObserver(func(d engine.Decision) {
			if err := j.AppendDecision(d.PassID, d.DeviceID, d.Value, string(d.Path), d.At); err != nil {
				slog.Error("journal decision failed", "error", err)
			}
		}))
	}

	sink := engine.DecisionFunc(func(deviceID int, value bool) {
		fmt.Fprintf(out, "decision device=%d value=%v\n", deviceID, value)
	})
	eng := engine.New(sink, engOpts...)

	for deviceID, payload := range configs {
		if err := eng.LoadConfig(deviceID, payload); err != nil {
			return WrapExitError(ExitFailure, "load config", err)
		}
	}
	slog.Info("engine running",
		"devices", len(configs),
		"sweep_every", opts.SweepEvery,
		"debounce", opts.Debounce,
		"journal", opts.DBPath != "")

	if opts.MetricsAddr != "" {
		startMetricsServer(ctx, opts.MetricsAddr)
	}

	tokens := engine.UUIDv7Generator{}
	stepTime := func() time.Time {
		if clock != nil {
			return clock.Latch()
		}
		return time.Now().UTC()
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cmd.InOrStdin())
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	ticker := time.NewTicker(opts.SweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil

		case <-ticker.C:
			at := stepTime()
			if j != nil {
				if err := j.AppendEvent(tokens.Generate(), journal.KindSweep, at, nil); err != nil {
					slog.Error("journal sweep failed", "error", err)
				}
			}
			eng.ProcessPending()

		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return WrapExitError(ExitCommandError, "read stdin", err)
					}
				default:
				}
				slog.Info("input closed, shutting down")
				return nil
			}
			at := stepTime()
			if j != nil {
				if err := j.AppendEvent(tokens.Generate(), journal.KindUpdate, at, []byte(line)); err != nil {
					slog.Error("journal update failed", "error", err)
				}
			}
			if err := eng.UpdateValues([]byte(line)); err != nil {
				slog.Error("update rejected", "error", err)
			}
		}
	}
}

// startMetricsServer serves Prometheus metrics until ctx is cancelled.
func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
