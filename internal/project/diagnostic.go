// SPDX-License-Identifier: MPL-2.0

package project

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a project that could not be loaded.
	SeverityError Severity = "error"

	// CodeAddonParseFailed marks an .addon file that could not be parsed.
	CodeAddonParseFailed = "addon_parse_failed"
	// CodeProjectCollision marks two .addon files with the same Org.Ident.
	CodeProjectCollision = "project_collision"
	// CodeSearchPathInvalid marks a search root that could not be scanned.
	CodeSearchPathInvalid = "search_path_invalid"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal discovery problem returned to callers for
	// rendering rather than written to stderr.
	Diagnostic struct {
		// Severity is the diagnostic level.
		Severity Severity
		// Code is a machine-readable identifier (e.g., "addon_parse_failed").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file or directory concerned (optional).
		Path string
		// Cause is the underlying error (optional).
		Cause error
	}
)
