// Package config loads the optional project settings file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Settings holds defaults for a documentation build, read from
// .insomnia-documenter.toml. Command-line flags take precedence.
type Settings struct {
	// Output is the output directory, relative to the working directory.
	Output string `toml:"output"`

	// Logo is the path to a 48x48 PNG logo.
	Logo string `toml:"logo"`

	// YAML lists workspace roots for the aggregation pipeline. Used only
	// when no --yaml flag is given.
	YAML []string `toml:"yaml"`

	// RenderDescriptions adds descriptionHtml to aggregated resources.
	RenderDescriptions bool `toml:"render_descriptions"`

	// LogLevel is the diagnostic log level ("debug", "info", "warn", "error").
	LogLevel string `toml:"log_level"`

	// LogFile also writes diagnostics as JSON to this path.
	LogFile string `toml:"log_file"`
}

// DefaultLogLevel is the log level used when none is configured.
const DefaultLogLevel = "warn"

// LoadSettings loads settings from path.
// Returns nil settings and nil error if the file doesn't exist.
func LoadSettings(path string) (*Settings, error) {
	var s Settings
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, &ValidationError{
			Field:   undecoded[0].String(),
			Message: "unknown setting",
			Err:     ErrUnknownSetting,
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetLogLevel returns the configured log level or the default.
func (s *Settings) GetLogLevel() string {
	if s != nil && s.LogLevel != "" {
		return s.LogLevel
	}
	return DefaultLogLevel
}

// GetOutput returns the configured output directory, or "" for the working
// directory.
func (s *Settings) GetOutput() string {
	if s == nil {
		return ""
	}
	return s.Output
}

// GetLogo returns the configured logo path, or "" for none.
func (s *Settings) GetLogo() string {
	if s == nil {
		return ""
	}
	return s.Logo
}

// GetYAML returns the configured workspace roots.
func (s *Settings) GetYAML() []string {
	if s == nil {
		return nil
	}
	return s.YAML
}

// GetLogFile returns the configured diagnostic log file, or "" for none.
func (s *Settings) GetLogFile() string {
	if s == nil {
		return ""
	}
	return s.LogFile
}

// GetRenderDescriptions reports whether descriptions should be rendered.
func (s *Settings) GetRenderDescriptions() bool {
	return s != nil && s.RenderDescriptions
}
