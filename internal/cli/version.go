package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tessro/insomnia-documenter/internal/version"
)

func newVersionCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, commit, and build date of insomnia-documenter.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(env.Stdout, "insomnia-documenter %s (commit: %s, built: %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
