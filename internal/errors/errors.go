package errors

import (
	"errors"
	"fmt"
)

// Exit codes for sshdconf
const (
	ExitSuccess        = 0
	ExitGeneralError   = 1
	ExitParseFailure   = 2
	ExitIncludeCycle   = 3
	ExitIOFailure      = 4
	ExitAmbiguousScope = 5
	ExitKeyNotSet      = 6
)

// ConfigError is the base error type for sshdconf
type ConfigError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *ConfigError) ExitCode() int {
	return e.Code
}

// New creates a new ConfigError
func New(code int, message string) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a ConfigError
func Wrap(code int, message string, cause error) *ConfigError {
	return &ConfigError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ParseFailure returns an error for a malformed configuration line.
// Line 0 means the failure concerns the file as a whole.
func ParseFailure(path string, line int, cause error) *ConfigError {
	if line > 0 {
		return Wrap(ExitParseFailure, fmt.Sprintf("parse error in %s line %d", path, line), cause)
	}
	return Wrap(ExitParseFailure, fmt.Sprintf("parse error in %s", path), cause)
}

// IncludeUnreadable returns an error for an include target that cannot be read
func IncludeUnreadable(path string, cause error) *ConfigError {
	return Wrap(ExitParseFailure, fmt.Sprintf("cannot read included file %s", path), cause)
}

// IncludeCycle returns an error for a file that includes itself,
// directly or through other includes
func IncludeCycle(path string) *ConfigError {
	return New(ExitIncludeCycle, fmt.Sprintf("include cycle detected at %s", path))
}

// IOFailure returns an error for a failed read or write
func IOFailure(op, path string, cause error) *ConfigError {
	return Wrap(ExitIOFailure, fmt.Sprintf("failed to %s %s", op, path), cause)
}

// AmbiguousScope returns an error for a condition string that does not
// parse as a Match predicate
func AmbiguousScope(condition string) *ConfigError {
	return New(ExitAmbiguousScope, fmt.Sprintf("invalid match condition: %q", condition))
}

// KeyNotSet returns an error for a lookup of an option with no occurrence
func KeyNotSet(key string) *ConfigError {
	return New(ExitKeyNotSet, fmt.Sprintf("option %s is not set", key))
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *ConfigError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var confErr *ConfigError
	if errors.As(err, &confErr) {
		return confErr.ExitCode()
	}
	return ExitGeneralError
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
