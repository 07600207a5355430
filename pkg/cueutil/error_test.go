// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		err := FormatError(nil, "game.addon")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		originalErr := errors.New("some error")
		err := FormatError(originalErr, "game.addon")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "game.addon") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !strings.Contains(err.Error(), "some error") {
			t.Errorf("error should contain original message, got: %v", err)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{
			name:     "empty path",
			path:     []string{},
			expected: "",
		},
		{
			name:     "single element",
			path:     []string{"name"},
			expected: "name",
		},
		{
			name:     "nested path",
			path:     []string{"Metadata", "InputSettings"},
			expected: "Metadata.InputSettings",
		},
		{
			name:     "array index",
			path:     []string{"Actions", "0", "gamepadCode"},
			expected: "Actions[0].gamepadCode",
		},
		{
			name:     "multiple array indices",
			path:     []string{"Metadata", "InputSettings", "Actions", "2", "name"},
			expected: "Metadata.InputSettings.Actions[2].name",
		},
		{
			name:     "leading numeric element is a field",
			path:     []string{"0", "name"},
			expected: "0.name",
		},
		{
			name:     "nested arrays",
			path:     []string{"items", "0", "values", "1"},
			expected: "items[0].values[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := formatPath(tt.path)
			if result != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	t.Run("data within limit returns nil", func(t *testing.T) {
		t.Parallel()

		data := []byte("hello world")
		err := CheckFileSize(data, 100, "game.addon")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data at exact limit returns nil", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 100)
		err := CheckFileSize(data, 100, "game.addon")
		if err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("data exceeding limit returns error", func(t *testing.T) {
		t.Parallel()

		data := make([]byte, 101)
		err := CheckFileSize(data, 100, "game.addon")
		if err == nil {
			t.Error("expected error")
		}
		if !strings.Contains(err.Error(), "game.addon") {
			t.Errorf("error should contain filename, got: %v", err)
		}
		if !strings.Contains(err.Error(), "101") {
			t.Errorf("error should contain actual size, got: %v", err)
		}
		if !strings.Contains(err.Error(), "100") {
			t.Errorf("error should contain max size, got: %v", err)
		}
	})

	t.Run("empty data returns nil", func(t *testing.T) {
		t.Parallel()

		err := CheckFileSize([]byte{}, 100, "game.addon")
		if err != nil {
			t.Errorf("expected nil for empty data, got %v", err)
		}
	})
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	t.Run("single issue", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{
			Source: "game.addon",
			Issues: []Issue{{Path: "Actions[0].name", Message: "expected string, got int"}},
		}
		expected := "game.addon: Actions[0].name: expected string, got int"
		if err.Error() != expected {
			t.Errorf("got %q, want %q", err.Error(), expected)
		}
	})

	t.Run("issue without path", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{
			Source: "game.addon",
			Issues: []Issue{{Message: "syntax error"}},
		}
		expected := "game.addon: syntax error"
		if err.Error() != expected {
			t.Errorf("got %q, want %q", err.Error(), expected)
		}
	})

	t.Run("multiple issues are listed", func(t *testing.T) {
		t.Parallel()

		err := &ValidationError{
			Source: "game.addon",
			Issues: []Issue{
				{Path: "a", Message: "bad"},
				{Path: "b", Message: "worse"},
			},
		}
		msg := err.Error()
		if !strings.Contains(msg, "validation failed") || !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b: worse") {
			t.Errorf("unexpected message: %q", msg)
		}
	})
}
