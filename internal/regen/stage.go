// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"errors"

	"github.com/peter-r-g/inputactions/internal/inputsettings"
)

// Pass stages, in the order a successful pass reports them.
const (
	StageLookingForActions Stage = iota
	StageParsingActions
	StageFindingRootNamespace
	StageOpeningOutputFile
	StageGeneratingCode
	StageFinished
	StageErrored
)

// Error kinds reported through Observer.OnError.
const (
	ErrorKindNoInputSettings ErrorKind = iota + 1
	ErrorKindParseActionsFailed
	ErrorKindOutputUnavailable
)

type (
	// Stage is the progress of a regeneration pass.
	Stage int

	// ErrorKind classifies why a pass failed.
	ErrorKind int
)

// String returns a human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageLookingForActions:
		return "looking for actions"
	case StageParsingActions:
		return "parsing actions"
	case StageFindingRootNamespace:
		return "finding root namespace"
	case StageOpeningOutputFile:
		return "opening output file"
	case StageGeneratingCode:
		return "generating code"
	case StageFinished:
		return "finished"
	case StageErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a pass.
func (s Stage) Terminal() bool {
	return s == StageFinished || s == StageErrored
}

// String returns the error kind identifier, as used by the issue catalog.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindNoInputSettings:
		return "NoInputSettings"
	case ErrorKindParseActionsFailed:
		return "ParseActionsFailed"
	case ErrorKindOutputUnavailable:
		return "OutputUnavailable"
	default:
		return "Unknown"
	}
}

// Classify maps a pass error to its kind. Errors that match none of the
// sentinels are reported as output failures, the only other way a pass fails.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, inputsettings.ErrNoInputSettings):
		return ErrorKindNoInputSettings
	case errors.Is(err, inputsettings.ErrParseActionsFailed):
		return ErrorKindParseActionsFailed
	default:
		return ErrorKindOutputUnavailable
	}
}
