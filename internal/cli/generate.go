package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tessro/insomnia-documenter/internal/collection"
	"github.com/tessro/insomnia-documenter/internal/config"
	"github.com/tessro/insomnia-documenter/internal/console"
	"github.com/tessro/insomnia-documenter/internal/logging"
	"github.com/tessro/insomnia-documenter/internal/paths"
	"github.com/tessro/insomnia-documenter/internal/resource"
	"github.com/tessro/insomnia-documenter/internal/site"
)

const usageMessage = "You must provide an exported Insomnia config " +
	"(Preferences -> Data -> Export Data -> Current Workspace) " +
	"or at least one --yaml directory."

const doneMessage = "Your documentation has been created and it's ready to be deployed!"

// runGenerate selects and runs a pipeline. An export given with --config
// takes precedence over YAML roots.
func runGenerate(cmd *cobra.Command, env Env, opts *options) error {
	out := console.New(env.Stdout, env.Stderr)

	settings, err := config.LoadSettings(paths.SettingsPath(env.BaseDir, opts.settings))
	if err != nil {
		return fail(out, fmt.Errorf("loading settings: %w", err))
	}
	mergeSettings(cmd, opts, settings)

	if err := config.ValidateLogLevel(opts.logLevel); err != nil {
		out.Fatal(err)
		return &ExitError{Code: ExitUsage, Err: err}
	}
	cleanup, err := setupLogging(env, opts)
	if err != nil {
		return fail(out, fmt.Errorf("opening log file: %w", err))
	}
	defer cleanup()

	if opts.config == "" && len(opts.yaml) == 0 {
		out.Usage(usageMessage)
		return &ExitError{Code: ExitUsage, Err: ErrNoInput}
	}

	outputDir := paths.Resolve(env.BaseDir, opts.output)

	if opts.config == "" {
		runAggregate(env, opts, outputDir, out)
		return nil
	}
	return runMaterialize(env, opts, outputDir, out)
}

// mergeSettings fills options the user did not set on the command line.
// A nil s leaves only the built-in defaults.
func mergeSettings(cmd *cobra.Command, opts *options, s *config.Settings) {
	f := cmd.Flags()
	if !f.Changed("output") {
		opts.output = s.GetOutput()
	}
	if !f.Changed("logo") {
		opts.logo = s.GetLogo()
	}
	if !f.Changed("yaml") {
		opts.yaml = s.GetYAML()
	}
	if !f.Changed("render-descriptions") {
		opts.renderDescriptions = s.GetRenderDescriptions()
	}
	if !f.Changed("log-level") {
		opts.logLevel = s.GetLogLevel()
	}
	if !f.Changed("log-file") {
		opts.logFile = s.GetLogFile()
	}
}

func setupLogging(env Env, opts *options) (func(), error) {
	level := logging.ParseLevel(opts.logLevel)
	if opts.logFile == "" {
		logging.Setup(env.Stderr, level)
		return func() {}, nil
	}
	return logging.SetupMulti(paths.Resolve(env.BaseDir, opts.logFile), env.Stderr, level)
}

// runAggregate writes one JSON file per YAML group. Group failures are
// reported but never change the exit status.
func runAggregate(env Env, opts *options, outputDir string, out *console.Reporter) {
	agg := &collection.Aggregator{
		OutputDir: outputDir,
		Reporter:  out,
	}
	if opts.renderDescriptions {
		agg.Markdown = resource.NewMarkdown()
	}

	groups := collection.ParseGroups(env.BaseDir, opts.yaml)
	report := agg.Run(groups)
	slog.Info("yaml aggregation finished", "groups", len(groups), "failed", report.Failed())
}

// runMaterialize copies the site template, the export and the optional logo.
func runMaterialize(env Env, opts *options, outputDir string, out *console.Reporter) error {
	configPath := paths.Resolve(env.BaseDir, opts.config)

	out.Step("Getting files ready...")

	tmpl, err := site.LoadTemplate()
	if err != nil {
		return fail(out, err)
	}

	m := &site.Materializer{Template: tmpl, OutputDir: outputDir}
	if err := m.EnsureOutput(); err != nil {
		out.Fatal(err)
		return &ExitError{Code: ExitOutputMissing, Err: err}
	}

	if err := m.CopyTemplate(); err != nil {
		return fail(out, fmt.Errorf("copying template: %w", err))
	}

	out.Step("Adding Insomnia JSON...")
	if err := m.AddConfig(configPath); err != nil {
		return fail(out, fmt.Errorf("adding config: %w", err))
	}

	if opts.logo != "" {
		logoPath := paths.Resolve(env.BaseDir, opts.logo)
		out.Step("Adding custom logo...")
		if err := site.InspectLogo(logoPath); err != nil {
			if !errors.Is(err, site.ErrLogoNotPNG) && !errors.Is(err, site.ErrLogoWrongSize) {
				return fail(out, fmt.Errorf("adding logo: %w", err))
			}
			out.Warn(err.Error())
		}
		if err := m.AddLogo(logoPath); err != nil {
			return fail(out, fmt.Errorf("adding logo: %w", err))
		}
	}

	slog.Info("site generated", "output", outputDir)
	out.Done(doneMessage)
	return nil
}

func fail(out *console.Reporter, err error) error {
	out.Fatal(err)
	return &ExitError{Code: ExitFailure, Err: err}
}
