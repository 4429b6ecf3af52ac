// Package errors provides structured error types and exit codes for bootstrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success (including -h)
	ExitRuntimeError     = 1 // Runtime error (step failed without an exit status, etc.)
	ExitConfigError      = 2 // Configuration or usage error
	ExitEnvironmentError = 3 // Toolchain not found or its version could not be parsed
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindUsage
	KindToolchainNotFound
	KindVersionParse
	KindStepFailed
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindUsage:
		return "usage"
	case KindToolchainNotFound:
		return "toolchain-not-found"
	case KindVersionParse:
		return "version-parse"
	case KindStepFailed:
		return "step-failed"
	default:
		return "runtime"
	}
}

// BootstrapError is the base error type for bootstrap.
type BootstrapError struct {
	Kind       ErrorKind
	Message    string
	Step       string // Step description for KindStepFailed
	ExitStatus int    // Child exit status for KindStepFailed
	Cause      error
}

func (e *BootstrapError) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s", e.Step, e.Message)
	}
	return e.Message
}

func (e *BootstrapError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
// A failed step propagates the exit status of its subprocess.
func (e *BootstrapError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindUsage:
		return ExitConfigError
	case KindToolchainNotFound, KindVersionParse:
		return ExitEnvironmentError
	case KindStepFailed:
		if e.ExitStatus != 0 {
			return e.ExitStatus
		}
		return ExitRuntimeError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *BootstrapError {
	return &BootstrapError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *BootstrapError {
	return &BootstrapError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *BootstrapError {
	return Config(fmt.Sprintf(format, args...))
}

// Usagef creates a command-line usage error.
func Usagef(format string, args ...interface{}) *BootstrapError {
	return &BootstrapError{
		Kind:    KindUsage,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *BootstrapError {
	return &BootstrapError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ToolchainNotFound reports a toolchain candidate that cannot be executed.
func ToolchainNotFound(candidate string, cause error) *BootstrapError {
	msg := fmt.Sprintf("toolchain not found: %s", candidate)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &BootstrapError{
		Kind:    KindToolchainNotFound,
		Message: msg,
		Cause:   cause,
	}
}

// VersionParse reports version output that does not match "<word> <major>.<minor>.<patch>".
func VersionParse(executable, rawOutput string) *BootstrapError {
	return &BootstrapError{
		Kind:    KindVersionParse,
		Message: fmt.Sprintf("cannot parse version of %s from %q", executable, rawOutput),
	}
}

// StepFailed reports a mandatory step that exited unsuccessfully.
func StepFailed(step string, exitStatus int, cause error) *BootstrapError {
	msg := fmt.Sprintf("failed with exit code %d", exitStatus)
	switch {
	case exitStatus == 0 && cause != nil:
		msg = fmt.Sprintf("failed: %v", cause)
	case cause != nil:
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &BootstrapError{
		Kind:       KindStepFailed,
		Message:    msg,
		Step:       step,
		ExitStatus: exitStatus,
		Cause:      cause,
	}
}

// Is reports whether err is a BootstrapError of the given kind.
func Is(err error, kind ErrorKind) bool {
	var be *BootstrapError
	if stderrors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var be *BootstrapError
	if stderrors.As(err, &be) {
		return be.ExitCode()
	}
	return ExitRuntimeError
}
