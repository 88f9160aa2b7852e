// Package cli implements the insomnia-documenter command line.
package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Env carries the process-level inputs of a run. Every relative path is
// resolved against BaseDir, so commands never consult the working directory
// on their own.
type Env struct {
	BaseDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// options holds the root command's flag values.
type options struct {
	config             string
	logo               string
	output             string
	yaml               []string
	settings           string
	renderDescriptions bool
	logLevel           string
	logFile            string
}

// NewRootCommand builds the root command bound to env.
func NewRootCommand(env Env) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "insomnia-documenter",
		Short: "Generate API documentation from an Insomnia workspace",
		Long: "insomnia-documenter turns an exported Insomnia workspace into a static documentation site.\n\n" +
			"With --config, the site template is copied to the output directory together with the export\n" +
			"and an optional logo. With one or more --yaml roots, the resource files under each root's\n" +
			".insomnia directory are aggregated into <name>.json in the output directory.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, env, opts)
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "", "location of the exported Insomnia JSON config")
	f.StringVarP(&opts.logo, "logo", "l", "", "project logo location (48x48px PNG)")
	f.StringVarP(&opts.output, "output", "o", "", "where to save the files (defaults to current working directory)")
	f.StringArrayVarP(&opts.yaml, "yaml", "y", nil, "location of YAML files (repeatable, one group per directory)")
	f.StringVar(&opts.settings, "settings", "", "settings file (defaults to ./.insomnia-documenter.toml)")
	f.BoolVar(&opts.renderDescriptions, "render-descriptions", false, "render markdown descriptions to HTML when aggregating YAML")
	f.StringVar(&opts.logLevel, "log-level", "", "diagnostic log level (debug, info, warn, error)")
	f.StringVar(&opts.logFile, "log-file", "", "also write diagnostics as JSON to this file")

	cmd.AddCommand(newVersionCommand(env))
	return cmd
}

// Execute runs the command line against the process environment.
func Execute() error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return NewRootCommand(Env{
		BaseDir: wd,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}).Execute()
}
