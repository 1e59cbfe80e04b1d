package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Database string
	OutDir   string
	Metrics  bool
	Trace    bool
	RunID    string
}

// RunSummary is the run command output.
type RunSummary struct {
	RunID    string            `json:"run_id"`
	Events   int64             `json:"events"`
	Analyses []AnalysisCounts  `json:"analyses"`
	Database string            `json:"database,omitempty"`
	Files    map[string]string `json:"files,omitempty"`
}

// AnalysisCounts pairs an analysis name with its totals.
type AnalysisCounts struct {
	Name     string            `json:"name"`
	Counters femtomix.Counters `json:"counters"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Run a configuration over its event stream",
		Long: `Build the reader and analyses of a run configuration, process every
event and print each analysis report.

Example:
  femtomix run --db ./bundles.db examples/configs/pion_pion.fm
  femtomix run --out ./out --trace examples/configs/pion_pion.yaml`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyses(opts, args[0], cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", defaultDatabase(), "SQLite database receiving output bundles (default $"+EnvDatabase+")")
	cmd.Flags().StringVar(&opts.OutDir, "out", "", "directory receiving one JSON bundle per analysis")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "export metrics to stderr")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "export spans to stderr")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run identifier (default: random UUID)")
	return cmd
}

func runAnalyses(opts *RunOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := opts.logger(cmd)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tel, buildOpts, err := setupTelemetry(cmd.ErrOrStderr(), opts.Metrics, opts.Trace)
	if err != nil {
		return WrapExitError(ExitFailure, "telemetry", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := tel.Shutdown(sctx); serr != nil {
			logger.Warn("telemetry shutdown failed", "error", serr)
		}
	}()

	buildOpts = append(buildOpts, femtomix.WithLogger(logger), femtomix.WithRunID(opts.RunID))
	if opts.Database != "" {
		st, err := store.NewSQLiteStore(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "cannot open database", err)
		}
		defer st.Close()
		buildOpts = append(buildOpts, femtomix.WithStore(st))
	}

	obj, err := readConfig(path)
	if err != nil {
		return err
	}
	if !isRun(obj) {
		return WrapExitError(ExitCommandError, path+" is not a run configuration", fmt.Errorf("missing reader and analyses"))
	}
	m, err := femtomix.Build(femtomix.NewCatalog(), obj, buildOpts...)
	if err != nil {
		_ = out.Failure(err, nil)
		return WrapExitError(ExitFailure, "invalid run configuration", err)
	}
	defer m.Close()

	bundles, err := m.Run(ctx)
	if err != nil {
		_ = out.Failure(err, RunSummary{RunID: m.RunID(), Events: m.Events()})
		return WrapExitError(ExitFailure, "run failed", err)
	}

	summary := RunSummary{RunID: m.RunID(), Events: m.Events(), Database: opts.Database}
	for _, b := range bundles {
		summary.Analyses = append(summary.Analyses, AnalysisCounts{Name: b.Analysis, Counters: b.Counters})
	}
	if opts.OutDir != "" {
		if summary.Files, err = writeBundles(opts.OutDir, bundles); err != nil {
			return WrapExitError(ExitFailure, "cannot write bundles", err)
		}
	}

	return out.Success(summary, func(w io.Writer) {
		fmt.Fprintf(w, "run %s: %d events\n", summary.RunID, summary.Events)
		for _, a := range m.Analyses() {
			fmt.Fprintln(w)
			fmt.Fprint(w, a.Report())
		}
	})
}

func writeBundles(dir string, bundles []*femtomix.OutputBundle) (map[string]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	files := make(map[string]string, len(bundles))
	for _, b := range bundles {
		data, err := b.JSON()
		if err != nil {
			return nil, err
		}
		path := filepath.Join(dir, b.Analysis+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		files[b.Analysis] = path
	}
	return files, nil
}
