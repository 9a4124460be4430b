// Package errors provides typed errors with exit codes for sshdconf.
//
// # Error Types
//
// ConfigError is the base error type that wraps an error with an exit code:
//
//	type ConfigError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
// Defined exit codes for different error categories:
//
//	ExitSuccess        = 0  // Success
//	ExitGeneralError   = 1  // General/unknown errors
//	ExitParseFailure   = 2  // Malformed directive or unreadable include
//	ExitIncludeCycle   = 3  // A file includes itself
//	ExitIOFailure      = 4  // Read/write error on a file in the graph
//	ExitAmbiguousScope = 5  // Condition does not parse as a Match predicate
//	ExitKeyNotSet      = 6  // Lookup of an option with no occurrence
//
// # Error Constructors
//
// Use the provided constructors for consistent error creation:
//
//	errors.ParseFailure("/etc/ssh/sshd_config", 12, err)
//	errors.IncludeCycle("/etc/ssh/conf.d/loop.conf")
//	errors.AmbiguousScope("User")
//
// # Extracting Exit Codes
//
// Use GetExitCode to extract the exit code from an error chain:
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
