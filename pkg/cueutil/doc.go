// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE compilation and decoding helpers.
//
// Project files (.addon) are JSON, which CUE compiles directly, so the same
// helpers serve both the project loader and schema-validated decoding of
// individual config values:
//
//  1. Compile the document (size-checked)
//  2. Unify a value with an embedded schema definition
//  3. Validate and decode to a Go value
//
// # Usage
//
//	//go:embed input_settings.cue
//	var schemaSource string
//
//	schema, err := cueutil.CompileSchema(ctx, schemaSource, "#Action")
//	...
//	action, err := cueutil.DecodeWith[Action](schema, element)
//	if err != nil {
//	    return err // includes the CUE path of the offending field
//	}
package cueutil
