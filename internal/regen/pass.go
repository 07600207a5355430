// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/peter-r-g/inputactions/internal/codegen"
	"github.com/peter-r-g/inputactions/internal/inputsettings"
	"github.com/peter-r-g/inputactions/internal/project"
)

// Result summarizes a successful pass.
type Result struct {
	// Path is the generated file.
	Path string
	// Actions is the number of actions read, including unnamed ones.
	Actions int
	// Changed is false when the file already had identical content.
	Changed bool
}

// Pass regenerates the input actions file of p, reporting each stage to obs.
// Every read of the project's configuration comes from one snapshot taken at
// the start. Nothing is written unless the actions parse, and nothing is
// created for a project whose files are gone. On failure obs receives OnError
// with the classified kind, then StageErrored, and the error is returned.
func Pass(p project.Project, obs Observer, out OutputWriter) (Result, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	if out == nil {
		out = AtomicWriter{}
	}

	fail := func(err error) (Result, error) {
		obs.OnError(Classify(err), err)
		obs.OnStage(StageErrored)
		return Result{}, err
	}

	obs.OnStage(StageLookingForActions)
	view, err := project.Freeze(p)
	if err != nil {
		return fail(&OutputError{Path: OutputPath(p), Op: "open", Err: err})
	}
	list, err := inputsettings.FindActions(view)
	if err != nil {
		return fail(err)
	}

	obs.OnStage(StageParsingActions)
	actions, err := inputsettings.ParseActions(list)
	if err != nil {
		return fail(err)
	}

	obs.OnStage(StageFindingRootNamespace)
	ns := inputsettings.RootNamespace(view)

	obs.OnStage(StageOpeningOutputFile)
	path := OutputPath(view)
	if err := requireRoot(view); err != nil {
		return fail(&OutputError{Path: path, Op: "open", Err: err})
	}
	f, err := out.Open(path)
	if err != nil {
		return fail(err)
	}

	obs.OnStage(StageGeneratingCode)
	changed, err := f.Commit(codegen.Emit(actions, ns))
	if err != nil {
		return fail(err)
	}

	obs.OnStage(StageFinished)
	return Result{Path: path, Actions: len(actions), Changed: changed}, nil
}

// requireRoot fails with project.ErrProjectRemoved when p's directory is gone.
func requireRoot(p project.Project) error {
	if _, err := os.Stat(p.RootPath()); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", project.ErrProjectRemoved, p.RootPath())
	}
	return nil
}
