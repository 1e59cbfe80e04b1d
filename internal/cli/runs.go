package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/femtomix/pkg/femtomix/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	Delete   bool
}

// StoredRun lists the bundles of one run.
type StoredRun struct {
	RunID   string       `json:"run_id"`
	Bundles []store.Info `json:"bundles"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List, show or delete stored output bundles",
		Long: `Without arguments list every stored run. With a run id list its
bundles, or print one bundle with "runs <run-id> <analysis>". --delete
removes the named run or bundle instead.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(2)(cmd, args); err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			if opts.Delete && len(args) == 0 {
				return WrapExitError(ExitCommandError, "invalid arguments", errors.New("--delete needs a run id"))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, args, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.Database, "db", defaultDatabase(), "SQLite database holding output bundles (default $"+EnvDatabase+")")
	cmd.Flags().BoolVar(&opts.Delete, "delete", false, "delete the named run or bundle")
	return cmd
}

func runRuns(opts *RunsOptions, args []string, cmd *cobra.Command) error {
	if opts.Database == "" {
		return WrapExitError(ExitCommandError, "no database", fmt.Errorf("set --db or $%s", EnvDatabase))
	}
	st, err := store.NewSQLiteStore(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot open database", err)
	}
	defer st.Close()
	out := opts.formatter(cmd)

	switch {
	case opts.Delete && len(args) == 2:
		return storeResult(st.Delete(args[0], args[1]), out, "deleted "+args[0]+"/"+args[1])
	case opts.Delete:
		return storeResult(st.DeleteRun(args[0]), out, "deleted "+args[0])
	case len(args) == 2:
		data, err := st.Load(args[0], args[1])
		if err != nil {
			return storeResult(err, out, "")
		}
		return out.Success(string(data), func(w io.Writer) { fmt.Fprintln(w, string(data)) })
	}

	var runIDs []string
	if len(args) == 1 {
		runIDs = args
	} else if runIDs, err = st.Runs(); err != nil {
		return WrapExitError(ExitFailure, "cannot list runs", err)
	}

	runs := make([]StoredRun, 0, len(runIDs))
	for _, id := range runIDs {
		infos, err := st.List(id)
		if err != nil {
			return WrapExitError(ExitFailure, "cannot list bundles", err)
		}
		runs = append(runs, StoredRun{RunID: id, Bundles: infos})
	}
	return out.Success(runs, func(w io.Writer) {
		for _, r := range runs {
			fmt.Fprintln(w, r.RunID)
			for _, b := range r.Bundles {
				fmt.Fprintf(w, "  %s\t%d bytes\t%s\n", b.Analysis, b.Size, b.SavedAt.Format("2006-01-02 15:04:05"))
			}
		}
	})
}

func storeResult(err error, out *OutputFormatter, message string) error {
	if errors.Is(err, store.ErrNotFound) {
		return WrapExitError(ExitFailure, "not found", err)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "store", err)
	}
	return out.Success(message, nil)
}
