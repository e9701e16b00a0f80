package cli

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/spf13/cobra"

	"github.com/mwestra/relogic/internal/graph"
	"github.com/mwestra/relogic/internal/wire"
)

//go:embed schema.cue
var schemaCUE string

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	DeviceID int
	Schema   bool
}

// FileReport is the validation outcome for one configuration file.
type FileReport struct {
	File          string  `json:"file"`
	Valid         bool    `json:"valid"`
	Nodes         int     `json:"nodes,omitempty"`
	Connectors    int     `json:"connectors,omitempty"`
	Relationships int     `json:"relationships,omitempty"`
	Dropped       []int   `json:"dropped_relationships,omitempty"`
	Cycles        [][]int `json:"cycles,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config.json> [more configs...]",
		Short: "Validate logic configuration files",
		Long: `Decode, build, and sort each logic configuration, reporting dropped
relationships and cycles. With --schema, the document is additionally
checked against the embedded CUE schema, which catches structural problems
(wrong types, misspelled fields) the permissive JSON decode lets through.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.DeviceID, "device", 1, "device id to build the graph under")
	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "also validate against the embedded CUE schema")

	return cmd
}

func runValidate(opts *ValidateOptions, files []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	reports := make([]FileReport, 0, len(files))
	failures := 0
	for _, file := range files {
		report := validateFile(opts, file)
		if !report.Valid {
			failures++
		}
		reports = append(reports, report)
	}

	if opts.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			printReport(cmd, r)
		}
	}

	if failures > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", failures, len(reports)))
	}
	return nil
}

func validateFile(opts *ValidateOptions, file string) FileReport {
	report := FileReport{File: file}

	payload, err := os.ReadFile(file)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	if opts.Schema {
		if err := validateSchema(payload, file); err != nil {
			report.Error = err.Error()
			return report
		}
	}

	doc, err := wire.DecodeLogicDocument(payload)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	g := graph.Build(opts.DeviceID, doc, slog.Default())
	report.Valid = true
	report.Nodes = len(g.Nodes)
	report.Relationships = len(g.Relationships)
	report.Dropped = g.DroppedRelationships
	report.Cycles = g.Cycles()
	for _, node := range g.Nodes {
		report.Connectors += len(node.Inputs) + len(node.Outputs)
	}
	return report
}

// validateSchema checks the raw payload against the embedded CUE schema.
func validateSchema(payload []byte, filename string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	docSchema := schema.LookupPath(cue.ParsePath("#LogicDocument"))
	if err := docSchema.Err(); err != nil {
		return fmt.Errorf("lookup schema: %w", err)
	}

	expr, err := cuejson.Extract(filename, payload)
	if err != nil {
		return fmt.Errorf("schema check: %w", err)
	}
	value := ctx.BuildExpr(expr)
	if err := value.Err(); err != nil {
		return fmt.Errorf("schema check: %w", err)
	}

	unified := docSchema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema check: %s", cueerrors.Details(err, nil))
	}
	return nil
}

func printReport(cmd *cobra.Command, r FileReport) {
	out := cmd.OutOrStdout()
	if !r.Valid {
		fmt.Fprintf(out, "✗ %s\n    %s\n", r.File, r.Error)
		return
	}
	fmt.Fprintf(out, "✓ %s  (%d node(s), %d connector(s), %d relationship(s))\n",
		r.File, r.Nodes, r.Connectors, r.Relationships)
	for _, id := range r.Dropped {
		fmt.Fprintf(out, "    dropped relationship %d (unresolved endpoint)\n", id)
	}
	for _, cycle := range r.Cycles {
		fmt.Fprintf(out, "    cycle: %v\n", cycle)
	}
}
