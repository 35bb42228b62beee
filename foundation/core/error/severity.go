// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors and the default severity
//              derived from an error code.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-02
// Modified: 2026-10-02
//
// Change History:
// - 2026-10-02 v0.1.0: Initial severity levels

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates bad user input, such as a malformed document
	SeverityLow Severity = iota

	// SeverityMedium indicates a failure with an obvious workaround
	SeverityMedium

	// SeverityHigh indicates a failure that stops the current command
	SeverityHigh

	// SeverityCritical indicates possible data loss
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should be surfaced loudly
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines the default severity for an error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodePathEscape:
		return SeverityCritical

	case CodeMaterializeFailed, CodeIOError, CodeDatabaseError, CodeInternal:
		return SeverityHigh

	case CodeForSureSyntax, CodeForSureStructure, CodeInputTooLarge,
		CodeInvalidInput, CodeNotFound, CodeAlreadyExists,
		CodeConfigError, CodeInvalidConfig:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
