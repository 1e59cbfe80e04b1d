package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool
}

// AnalysisSummary describes one constructed analysis.
type AnalysisSummary struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	Identical bool   `json:"identical"`
}

// ValidationResult is the validate command output.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Analyses   []AnalysisSummary `json:"analyses,omitempty"`
	Unconsumed []string          `json:"unconsumed,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "validate <config>",
		Short: "Construct a configuration without reading events",
		Long: `Parse and construct an analysis or run configuration, then report
keys no component read. With --strict unread keys fail validation.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on unconsumed keys")
	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	buildOpts := []femtomix.Option{femtomix.WithLogger(opts.logger(cmd))}
	if opts.Strict {
		buildOpts = append(buildOpts, femtomix.WithStrictConfig())
	}

	l, err := build(path, buildOpts...)
	if err != nil {
		_ = out.Failure(err, ValidationResult{})
		return err
	}
	defer l.Close()

	result := ValidationResult{Valid: true, Unconsumed: l.obj.UnconsumedKeys()}
	for _, a := range l.analyses {
		result.Analyses = append(result.Analyses, AnalysisSummary{Name: a.Name(), Class: a.Class(), Identical: a.Identical()})
	}
	return out.Success(result, func(w io.Writer) {
		for _, a := range result.Analyses {
			mode := "two-species"
			if a.Identical {
				mode = "identical"
			}
			fmt.Fprintf(w, "%s (%s, %s)\n", a.Name, a.Class, mode)
		}
		for _, k := range result.Unconsumed {
			fmt.Fprintf(w, "unconsumed: %s\n", k)
		}
		fmt.Fprintln(w, "ok")
	})
}
