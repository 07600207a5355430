// SPDX-License-Identifier: MPL-2.0

// Package codegen renders input actions as a C# source file.
//
// The output has exactly one shape: a static InputActions class with one
// read-only accessor per action, and an InputAction value type that converts
// implicitly to its name. Rendering is deterministic, so identical input
// always yields identical bytes.
package codegen
