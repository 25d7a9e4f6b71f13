package model

import "fmt"

// ExitCode defines the process exit codes used by the CLI.
// Exit codes 2+ identify the failing subsystem so that scripts
// wrapping hailstack can branch on the cause.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitManifestError indicates the stack manifest was missing or invalid.
	ExitManifestError ExitCode = 2

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 3

	// ExitDatabaseError indicates a PostgreSQL connection or query failed.
	ExitDatabaseError ExitCode = 4

	// ExitLaunchFailed indicates a stack process could not be started.
	ExitLaunchFailed ExitCode = 5

	// ExitAPIError indicates a call to the orchestrator API failed.
	ExitAPIError ExitCode = 6
)

// CLIError is an error that carries an exit code, letting the CLI layer
// translate domain failures into process exit statuses.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
