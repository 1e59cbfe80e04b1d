package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/femtomix/pkg/femtomix"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

// NewSettingsCommand creates the settings command.
func NewSettingsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings <config>",
		Short: "Print the effective settings of every analysis",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := build(args[0], femtomix.WithLogger(rootOpts.logger(cmd)))
			if err != nil {
				return err
			}
			defer l.Close()

			settings := make(map[string][]string, len(l.analyses))
			for _, a := range l.analyses {
				settings[a.Name()] = a.ListSettings()
			}
			return rootOpts.formatter(cmd).Success(settings, func(w io.Writer) {
				for _, a := range l.analyses {
					for _, line := range settings[a.Name()] {
						fmt.Fprintln(w, line)
					}
				}
			})
		},
	}
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt <config>",
		Short: "Print a configuration in canonical pretty form",
		Long: `Print a configuration file (native notation, YAML or CUE) in the
canonical native notation, one entry per line.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := readConfig(args[0])
			if err != nil {
				return err
			}
			text := obj.Stringify(true)
			return rootOpts.formatter(cmd).Success(text, func(w io.Writer) {
				fmt.Fprintln(w, text)
			})
		},
	}
}

// NewClassesCommand creates the classes command.
func NewClassesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classes",
		Short: "List the registered classes per capability",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			classes := femtomix.NewCatalog().Classes()
			caps := make([]registry.Capability, 0, len(classes))
			for c := range classes {
				caps = append(caps, c)
			}
			slices.Sort(caps)
			return rootOpts.formatter(cmd).Success(classes, func(w io.Writer) {
				for _, c := range caps {
					fmt.Fprintf(w, "%s:\n", c)
					for _, name := range classes[c] {
						fmt.Fprintf(w, "  %s\n", name)
					}
				}
			})
		},
	}
}
