// Package shared provides constants and types used across CLI subpackages.
package shared

import "fmt"

// Exit codes for the changelog-md CLI. Every failure exits with ExitFailure
// so callers in CI only need to check for a non-zero status.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates any error: unreadable input, a changelog without
	// sections, a preamble, a failed conversion or bad arguments.
	ExitFailure = 1
)

// Command group IDs used in help output.
const (
	GroupConvert       = "convert"
	GroupConfiguration = "configuration"
)

// Flag names shared between the root command and subcommands.
const (
	FlagConfig = "config"
	FlagDebug  = "debug"
	FlagPlain  = "plain"
)

// ExitError carries an exit code for an error that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCode returns the process exit code for err. Nil is success, an
// ExitError carries its own code, and anything else is ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if e, ok := err.(*ExitError); ok {
		return e.Code
	}
	return ExitFailure
}
