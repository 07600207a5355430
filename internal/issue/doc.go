// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries remediation steps for CLI output, and the issue
// catalog holds Markdown guidance that 'inputactions explain' renders with
// glamour.
package issue
