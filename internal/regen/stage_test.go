// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/peter-r-g/inputactions/internal/inputsettings"
)

func TestStage_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stage    Stage
		want     string
		terminal bool
	}{
		{StageLookingForActions, "looking for actions", false},
		{StageParsingActions, "parsing actions", false},
		{StageFindingRootNamespace, "finding root namespace", false},
		{StageOpeningOutputFile, "opening output file", false},
		{StageGeneratingCode, "generating code", false},
		{StageFinished, "finished", true},
		{StageErrored, "errored", true},
		{Stage(99), "unknown", false},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
		if got := tt.stage.Terminal(); got != tt.terminal {
			t.Errorf("Stage(%d).Terminal() = %v, want %v", tt.stage, got, tt.terminal)
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"no input settings", inputsettings.ErrNoInputSettings, ErrorKindNoInputSettings},
		{"parse error", &inputsettings.ParseError{Index: 2, Cause: errors.New("bad")}, ErrorKindParseActionsFailed},
		{"wrapped parse error", fmt.Errorf("pass: %w", &inputsettings.ParseError{Cause: errors.New("bad")}), ErrorKindParseActionsFailed},
		{"output error", &OutputError{Path: "x", Op: "open", Err: errors.New("denied")}, ErrorKindOutputUnavailable},
	}
	for _, tt := range tests {
		if got := Classify(tt.err); got != tt.want {
			t.Errorf("%s: Classify() = %v, want %v", tt.name, got, tt.want)
		}
	}

	if ErrorKindParseActionsFailed.String() != "ParseActionsFailed" {
		t.Errorf("ErrorKind.String() = %q", ErrorKindParseActionsFailed.String())
	}
}
