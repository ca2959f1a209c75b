// Command easel renders, inspects and views YAML scene files.
package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/easel/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
