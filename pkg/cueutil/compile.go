// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Compile compiles a JSON or CUE document into a cue.Value using a fresh
// context. The size limit is checked before compilation.
func Compile(data []byte, opts ...Option) (cue.Value, error) {
	return CompileWith(cuecontext.New(), data, opts...)
}

// CompileWith is Compile with a caller-owned context. Values that will be
// unified with each other must come from the same context.
func CompileWith(ctx *cue.Context, data []byte, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if v.Err() != nil {
		return cue.Value{}, FormatError(v.Err(), filename)
	}
	return v, nil
}

// CompileSchema compiles an embedded schema and returns the definition at
// schemaPath (e.g. "#Action"). A failure here is a programming error in the
// embedded schema, so it is reported as internal.
func CompileSchema(ctx *cue.Context, source, schemaPath string) (cue.Value, error) {
	schema := ctx.CompileString(source)
	if schema.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schema.Err())
	}
	def := schema.LookupPath(cue.ParsePath(schemaPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, def.Err())
	}
	return def, nil
}

// DecodeWith unifies v with schema, validates the result (all values must be
// concrete) and decodes it into a T. Errors carry the CUE path of the
// offending field.
func DecodeWith[T any](schema, v cue.Value, opts ...Option) (T, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var result T
	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return result, FormatError(err, options.label())
	}
	if err := unified.Decode(&result); err != nil {
		return result, FormatError(err, options.label())
	}
	return result, nil
}

// Lookup returns the value at the given field selectors, reporting whether it
// exists. Selectors are quoted so keys containing dots or symbols are safe.
func Lookup(v cue.Value, fields ...string) (cue.Value, bool) {
	sels := make([]cue.Selector, len(fields))
	for i, f := range fields {
		sels[i] = cue.Str(f)
	}
	found := v.LookupPath(cue.MakePath(sels...))
	return found, found.Exists()
}
