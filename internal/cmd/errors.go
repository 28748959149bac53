// Package cmd provides CLI command implementations.
package cmd

import (
	"errors"

	werrors "github.com/wncli/wn/internal/errors"
)

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitValidationError indicates the configuration failed validation.
	ExitValidationError = 2

	// ExitBuildFailed indicates at least one module could not be compiled,
	// or the dependency graph itself is broken.
	ExitBuildFailed = 3

	// ExitNotFound indicates a source file, directory or config was not found.
	ExitNotFound = 5
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitValidationError:
		return "Validation Error"
	case ExitBuildFailed:
		return "Build Failed"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command already reported the error.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, werrors.ErrValidation):
		return ExitValidationError
	case errors.Is(err, werrors.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, werrors.ErrCycle),
		errors.Is(err, werrors.ErrMissingModule),
		errors.Is(err, werrors.ErrSyntax),
		errors.Is(err, werrors.ErrStructural):
		return ExitBuildFailed
	default:
		return ExitGeneralError
	}
}
