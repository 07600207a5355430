// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
)

const (
	// PackageTypeGame is the gamemode package kind, the only kind that gets
	// generated input actions.
	PackageTypeGame PackageType = "game"
	// PackageTypeMap is a map package.
	PackageTypeMap PackageType = "map"
	// PackageTypeLibrary is a code library package.
	PackageTypeLibrary PackageType = "library"
	// PackageTypeTool is an editor tool package.
	PackageTypeTool PackageType = "tool"
	// PackageTypeContent is an asset-only package.
	PackageTypeContent PackageType = "content"
)

var (
	// ErrConfigMetaDecode is the sentinel wrapped when a config-meta entry
	// exists but cannot be decoded into the requested type.
	ErrConfigMetaDecode = errors.New("config meta decode failed")

	// ErrProjectRemoved is returned when a project's files no longer exist.
	ErrProjectRemoved = errors.New("project no longer exists")
)

type (
	// PackageType is the kind of package a project builds. Unknown values are
	// preserved verbatim; only PackageTypeGame is acted upon.
	PackageType string

	// Project is the read-only view of a project consumed by the regeneration
	// pipeline. Implementations must be comparable: the interface value itself
	// identifies the project.
	Project interface {
		// PackageType reports the package kind.
		PackageType() PackageType
		// RootPath is the absolute project directory.
		RootPath() string
		// CodeOutputPath is the absolute directory holding the project's code.
		CodeOutputPath() string
		// Title is the human-readable project name.
		Title() string
		// ConfigMeta returns the config-meta entry stored under key.
		ConfigMeta(key string) (cue.Value, bool)
	}

	// Snapshotter is implemented by projects whose configuration can change
	// between reads. Snapshot brings the project up to date and returns a
	// view that no longer follows it.
	Snapshotter interface {
		Snapshot() (Project, error)
	}
)

// Freeze returns a view of p whose reads all see the same configuration.
// Projects that are not Snapshotters are returned as is.
func Freeze(p Project) (Project, error) {
	if s, ok := p.(Snapshotter); ok {
		return s.Snapshot()
	}
	return p, nil
}

// String returns the package type name, or "unknown" when empty.
func (t PackageType) String() string {
	if t == "" {
		return "unknown"
	}
	return string(t)
}

// IsGame reports whether t is the gamemode kind. Comparison ignores case.
func (t PackageType) IsGame() bool {
	return strings.EqualFold(string(t), string(PackageTypeGame))
}

// TryGetConfigMeta decodes the config-meta entry stored under key into a T.
// It reports false when the entry is absent or does not decode, so callers can
// fall back to a default.
func TryGetConfigMeta[T any](p Project, key string) (T, bool) {
	var zero T
	v, ok := p.ConfigMeta(key)
	if !ok {
		return zero, false
	}
	out, err := DecodeConfigMeta[T](v)
	if err != nil {
		return zero, false
	}
	return out, true
}

// DecodeConfigMeta decodes v into a T. Struct fields bind case-insensitively.
func DecodeConfigMeta[T any](v cue.Value) (T, error) {
	var out T
	if err := v.Decode(&out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrConfigMetaDecode, err)
	}
	return out, nil
}
