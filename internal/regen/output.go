// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peter-r-g/inputactions/internal/project"
)

const (
	// GeneratedDir is the directory under a project's code path that holds
	// generated files.
	GeneratedDir = "Generated"
	// OutputFileName is the generated file's name.
	OutputFileName = "InputActions.generated.cs"
)

// ErrOutputUnavailable is wrapped by every failure to open or write the
// generated file.
var ErrOutputUnavailable = errors.New("output file unavailable")

type (
	// OutputWriter opens the destination of a pass.
	OutputWriter interface {
		Open(path string) (OutputFile, error)
	}

	// OutputFile is an opened destination. Exactly one of Commit or Abort is
	// called.
	OutputFile interface {
		// Commit stores data at the destination. It reports whether the
		// destination changed.
		Commit(data []byte) (bool, error)
		// Abort discards the destination without touching the target.
		Abort() error
	}

	// OutputError describes a failed open or write of the generated file.
	OutputError struct {
		Path string
		Op   string
		Err  error
	}

	// AtomicWriter writes output through a temp file in the target directory
	// that is synced and renamed over the target. A target whose content is
	// already identical is left untouched.
	AtomicWriter struct{}

	atomicFile struct {
		target string
		tmp    *os.File
	}
)

// OutputPath returns the generated file's path for p.
func OutputPath(p project.Project) string {
	return filepath.Join(p.CodeOutputPath(), GeneratedDir, OutputFileName)
}

// Error implements the error interface.
func (e *OutputError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes ErrOutputUnavailable and the underlying error.
func (e *OutputError) Unwrap() []error {
	return []error{ErrOutputUnavailable, e.Err}
}

// Open implements OutputWriter. It creates the target directory and a temp
// file beside the target.
func (AtomicWriter) Open(path string) (OutputFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &OutputError{Path: dir, Op: "create directory", Err: err}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, &OutputError{Path: path, Op: "open", Err: err}
	}
	return &atomicFile{target: path, tmp: tmp}, nil
}

// Commit implements OutputFile.
func (f *atomicFile) Commit(data []byte) (bool, error) {
	if existing, err := os.ReadFile(f.target); err == nil && bytes.Equal(existing, data) {
		return false, f.Abort()
	}

	if _, err := f.tmp.Write(data); err != nil {
		f.Abort() //nolint:errcheck // best-effort cleanup
		return false, &OutputError{Path: f.target, Op: "write", Err: err}
	}
	if err := f.tmp.Sync(); err != nil {
		f.Abort() //nolint:errcheck // best-effort cleanup
		return false, &OutputError{Path: f.target, Op: "sync", Err: err}
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name()) //nolint:errcheck // best-effort cleanup
		return false, &OutputError{Path: f.target, Op: "close", Err: err}
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		os.Remove(f.tmp.Name()) //nolint:errcheck // best-effort cleanup
		return false, &OutputError{Path: f.target, Op: "replace", Err: err}
	}
	return true, nil
}

// Abort implements OutputFile.
func (f *atomicFile) Abort() error {
	closeErr := f.tmp.Close()
	removeErr := os.Remove(f.tmp.Name())
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return removeErr
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return closeErr
	}
	return nil
}
