package model

import (
	"errors"
	"fmt"
)

// ExitCode defines the process exit codes dbdock produces. Precondition
// failures all map to ExitGeneralError; subprocess exit codes are relayed
// unchanged and therefore are not enumerated here.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully. Printing the
	// usage listing is also a success.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates a precondition or argument failure.
	ExitGeneralError ExitCode = 1
)

// ErrorKind names one variant of the flat error taxonomy. Every kind is
// terminal: nothing in dbdock catches and recovers from a CLIError.
type ErrorKind string

const (
	// KindGeneral is used for failures that fit no other kind.
	KindGeneral ErrorKind = "general"

	// KindMissingConfigFile means the secrets file does not exist.
	KindMissingConfigFile ErrorKind = "missing-config-file"

	// KindMissingOrchestrationDescriptor means the Compose file does not
	// exist or does not declare the database service.
	KindMissingOrchestrationDescriptor ErrorKind = "missing-orchestration-descriptor"

	// KindMissingRequiredCredential means the secrets file lacks the root
	// database credential.
	KindMissingRequiredCredential ErrorKind = "missing-required-credential"

	// KindMissingRequiredExecutable means the orchestration CLI or the
	// container runtime CLI is not on PATH.
	KindMissingRequiredExecutable ErrorKind = "missing-required-executable"

	// KindContainersAlreadyRunning is returned by start when the project
	// already has running containers.
	KindContainersAlreadyRunning ErrorKind = "containers-already-running"

	// KindContainersNotRunning is returned by status and exec when no
	// project container is running.
	KindContainersNotRunning ErrorKind = "containers-not-running"

	// KindInvalidArgument means a positional argument was rejected.
	KindInvalidArgument ErrorKind = "invalid-argument"

	// KindPortConflict means a host port the database service publishes is
	// already bound by another process.
	KindPortConflict ErrorKind = "port-conflict"

	// KindDockerUnavailable means the Docker daemon could not be reached.
	KindDockerUnavailable ErrorKind = "docker-unavailable"

	// KindSubprocess wraps a delegated process that exited non-zero. Its
	// exit code is relayed as the process exit code.
	KindSubprocess ErrorKind = "subprocess"
)

// String returns the string representation of ErrorKind.
func (k ErrorKind) String() string {
	return string(k)
}

// CLIError is a custom error type that carries an exit code and a kind.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error

	// Silent suppresses the diagnostic line. Used for subprocess failures
	// whose own output is already on the terminal.
	Silent bool
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
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

// NewCLIError creates a new CLIError of the given kind. The exit code is
// always ExitGeneralError.
func NewCLIError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: kind, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Code: ExitGeneralError, Kind: kind, Message: message, Err: err}
}

// NewSubprocessError builds the silent error used to relay a child
// process's exit code. A code of 0 or less is coerced to 1 so that a
// failure is never reported as success.
func NewSubprocessError(name string, code int, err error) *CLIError {
	if code <= 0 {
		code = int(ExitGeneralError)
	}
	return &CLIError{
		Code:    ExitCode(code),
		Kind:    KindSubprocess,
		Message: fmt.Sprintf("%s exited with status %d", name, code),
		Err:     err,
		Silent:  true,
	}
}

// KindOf returns the kind of the first CLIError in err's chain, or
// KindGeneral when err carries none. A nil error has no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind
	}
	return KindGeneral
}

// ExitCodeOf maps err to the process exit code.
func ExitCodeOf(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return ExitGeneralError
}
