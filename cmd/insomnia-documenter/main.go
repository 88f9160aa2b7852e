// Command insomnia-documenter generates a static documentation site from an
// exported Insomnia workspace.
package main

import (
	"fmt"
	"os"

	"github.com/tessro/insomnia-documenter/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !cli.Reported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
