package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitUsage         = 1
	ExitOutputMissing = 127
)

// ErrNoInput is returned when neither an export nor a YAML root is given.
var ErrNoInput = errors.New("no Insomnia config or YAML directory provided")

// ExitError ends the process with Code. The wrapped error has already been
// shown to the user.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Reported reports whether err has already been printed to the user.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}
