// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used by the ForSure packages and the
//              command-line front end. Codes are grouped into categories so
//              that callers can react to whole classes of failures.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-02
// Modified: 2026-10-14
//
// Change History:
// - 2026-10-02 v0.1.0: Initial error codes
// - 2026-10-14 v0.2.0: ForSure document, materializer and history codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeCanceled     Code = "CANCELED"

	// ForSure documents
	CodeForSureSyntax    Code = "FORSURE_SYNTAX"
	CodeForSureStructure Code = "FORSURE_STRUCTURE"
	CodeInputTooLarge    Code = "INPUT_TOO_LARGE"

	// Filesystem output
	CodeMaterializeFailed Code = "MATERIALIZE_FAILED"
	CodePathEscape        Code = "PATH_ESCAPE"
	CodeAlreadyExists     Code = "ALREADY_EXISTS"
	CodeIOError           Code = "IO_ERROR"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeCanceled,
		CodeForSureSyntax, CodeForSureStructure, CodeInputTooLarge,
		CodeMaterializeFailed, CodePathEscape, CodeAlreadyExists, CodeIOError,
		CodeDatabaseError,
		CodeConfigError, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeForSureSyntax, CodeForSureStructure, CodeInputTooLarge:
		return "document"
	case CodeMaterializeFailed, CodePathEscape, CodeAlreadyExists, CodeIOError:
		return "filesystem"
	case CodeDatabaseError:
		return "database"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	default:
		return "generic"
	}
}

// ExitCode maps an error code to a process exit status for the CLI
func (c Code) ExitCode() int {
	switch c.Category() {
	case "document":
		return 2
	case "filesystem":
		return 3
	case "configuration":
		return 4
	default:
		return 1
	}
}
