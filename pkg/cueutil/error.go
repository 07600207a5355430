// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

type (
	// ValidationError reports CUE compile, validation or decode failures for
	// one source, one entry per offending field.
	ValidationError struct {
		// Source names the document or value being decoded.
		Source string
		// Issues lists each failure with its JSON-path location.
		Issues []Issue
		// cause is the original CUE error.
		cause error
	}

	// Issue is a single field-level failure.
	Issue struct {
		// Path is the JSON path to the invalid value (e.g. "Actions[2].gamepadCode").
		// Empty when the failure is not tied to a field.
		Path string
		// Message is the failure description without the path prefix.
		Message string
	}
)

// Error implements the error interface.
//
//	addon.json: Actions[0].gamepadCode: 2 errors in empty disjunction
func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", e.Source, e.Issues[0])
	}
	lines := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		lines[i] = is.String()
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.Source, strings.Join(lines, "\n  "))
}

// Unwrap returns the original CUE error.
func (e *ValidationError) Unwrap() error { return e.cause }

// String renders the issue as "<path>: <message>".
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// FormatError converts a CUE error into a *ValidationError with JSON-path
// prefixes. Non-CUE errors are wrapped with the source name.
func FormatError(err error, source string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return fmt.Errorf("%s: %w", source, err)
	}

	issues := make([]Issue, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path in the message itself.
		if pathStr != "" {
			if trimmed, ok := strings.CutPrefix(msg, pathStr); ok {
				msg = strings.TrimSpace(strings.TrimPrefix(trimmed, ":"))
			}
		}
		issues = append(issues, Issue{Path: pathStr, Message: msg})
	}

	return &ValidationError{Source: source, Issues: issues, cause: err}
}

// formatPath converts a CUE error path (["Actions", "0", "name"]) into
// JSON-path notation ("Actions[0].name").
func formatPath(path []string) string {
	var result strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			result.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}
	return result.String()
}

func isIndex(part string) bool {
	if part == "" {
		return false
	}
	for _, c := range part {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
