// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by package tests: a manually
// driven clock for debounce tests and Must* filesystem helpers that fail the
// test immediately instead of returning errors.
package testutil
