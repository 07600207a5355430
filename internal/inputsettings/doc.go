// SPDX-License-Identifier: MPL-2.0

// Package inputsettings reads input action definitions and the generated
// code's root namespace from a project's config meta.
//
// Actions live under the "InputSettings" entry as a list named "Actions".
// Each element is validated against an embedded CUE schema; field names bind
// case-insensitively and null elements are skipped. The root namespace comes
// from "Compiler".RootNamespace and falls back to DefaultRootNamespace.
package inputsettings
