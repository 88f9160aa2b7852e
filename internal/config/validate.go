package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validation errors.
var (
	ErrEmptyYAMLRoot   = errors.New("yaml root cannot be empty")
	ErrInvalidLogLevel = errors.New("log_level must be 'debug', 'info', 'warn', or 'error'")
	ErrInvalidLogoExt  = errors.New("logo must be a .png file")
	ErrUnknownSetting  = errors.New("unknown setting")
)

// validLogLevels is the list of valid log_level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidationError wraps a validation error with context.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidateYAMLRoots validates the configured workspace roots.
func ValidateYAMLRoots(roots []string) error {
	for i, root := range roots {
		if strings.TrimSpace(root) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("yaml[%d]", i),
				Message: "cannot be empty",
				Err:     ErrEmptyYAMLRoot,
			}
		}
	}
	return nil
}

// ValidateLogLevel validates a log level. Empty means the default.
func ValidateLogLevel(level string) error {
	if level == "" || validLogLevels[strings.ToLower(level)] {
		return nil
	}
	return &ValidationError{
		Field:   "log_level",
		Value:   level,
		Message: "must be one of debug, info, warn, error",
		Err:     ErrInvalidLogLevel,
	}
}

// ValidateLogo validates a logo path. Empty means no logo.
func ValidateLogo(path string) error {
	if path == "" || strings.EqualFold(filepath.Ext(path), ".png") {
		return nil
	}
	return &ValidationError{
		Field:   "logo",
		Value:   path,
		Message: "must point to a .png file",
		Err:     ErrInvalidLogoExt,
	}
}

// Validate checks every field of s.
func (s *Settings) Validate() error {
	if s == nil {
		return nil
	}
	if err := ValidateYAMLRoots(s.YAML); err != nil {
		return err
	}
	if err := ValidateLogLevel(s.LogLevel); err != nil {
		return err
	}
	return ValidateLogo(s.Logo)
}
