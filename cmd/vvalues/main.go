// Command vvalues runs operator interception scenarios and inspects their
// traces.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/vvalues/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
