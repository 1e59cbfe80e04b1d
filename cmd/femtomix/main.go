// Command femtomix builds and runs femtoscopic event-mixing analyses.
package main

import (
	"fmt"
	"os"

	"github.com/randalmurphal/femtomix/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "femtomix:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
