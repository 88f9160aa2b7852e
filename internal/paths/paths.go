// Package paths resolves every filesystem location the generator touches.
// Callers pass the base directory explicitly instead of relying on the
// process working directory, and environment overrides are honoured for
// isolated testing.
//
// Override precedence:
//  1. INSOMNIA_DOCUMENTER_TEMPLATE replaces the embedded site template
//  2. INSOMNIA_DOCUMENTER_SETTINGS replaces the default settings file location
package paths

import (
	"os"
	"path/filepath"
)

// Environment variable names for path overrides.
const (
	// EnvTemplateDir points at an on-disk site template tree used instead of
	// the one compiled into the binary.
	EnvTemplateDir = "INSOMNIA_DOCUMENTER_TEMPLATE"

	// EnvSettingsPath overrides the settings file location directly.
	EnvSettingsPath = "INSOMNIA_DOCUMENTER_SETTINGS"
)

// Well-known file and directory names.
const (
	// SettingsFile is the settings file looked up in the base directory.
	SettingsFile = ".insomnia-documenter.toml"

	// WorkspaceDir is the hidden directory holding per-resource YAML files.
	WorkspaceDir = ".insomnia"

	// ExportFile is the name the export is copied to in the output directory.
	ExportFile = "insomnia.json"

	// LogoFile is the name the logo is copied to in the output directory.
	LogoFile = "logo.png"
)

// Resolve returns p relative to base. An empty p resolves to base itself and
// an absolute p is returned cleaned.
func Resolve(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// TemplateDir returns the template override directory, or "" when the
// embedded template should be used.
func TemplateDir() string {
	return os.Getenv(EnvTemplateDir)
}

// SettingsPath returns the settings file path for base.
// Precedence: explicit > INSOMNIA_DOCUMENTER_SETTINGS > base/.insomnia-documenter.toml
func SettingsPath(base, explicit string) string {
	if explicit != "" {
		return Resolve(base, explicit)
	}
	if p := os.Getenv(EnvSettingsPath); p != "" {
		return Resolve(base, p)
	}
	return filepath.Join(base, SettingsFile)
}

// GroupName returns the group name for a YAML root: its final path segment.
func GroupName(root string) string {
	return filepath.Base(filepath.Clean(root))
}

// WorkspacePath returns the hidden workspace directory under a YAML root.
func WorkspacePath(root string) string {
	return filepath.Join(root, WorkspaceDir)
}

// GroupOutputPath returns the aggregated JSON path for a group.
func GroupOutputPath(outputDir, group string) string {
	return filepath.Join(outputDir, group+".json")
}
