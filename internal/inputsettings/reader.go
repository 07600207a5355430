// SPDX-License-Identifier: MPL-2.0

package inputsettings

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/pkg/cueutil"
	"github.com/peter-r-g/inputactions/pkg/inputaction"
)

const (
	// InputSettingsKey is the config-meta entry holding the action list.
	InputSettingsKey = "InputSettings"
	// CompilerKey is the config-meta entry holding compiler settings.
	CompilerKey = "Compiler"
	// DefaultRootNamespace is used when the project declares none.
	DefaultRootNamespace = "Sandbox"

	actionsField = "Actions"
)

var (
	//go:embed input_settings.cue
	inputSettingsSchema string

	// ErrNoInputSettings is returned when the project has no InputSettings
	// entry, or the entry has no Actions list.
	ErrNoInputSettings = errors.New("no input settings")

	// ErrParseActionsFailed is returned when an action element is structurally
	// invalid. The returned error is a *ParseError.
	ErrParseActionsFailed = errors.New("failed to parse input actions")

	// canonicalFields maps lowercased action keys to their schema spelling.
	canonicalFields = map[string]string{
		"name":         "name",
		"groupname":    "groupName",
		"keyboardcode": "keyboardCode",
		"gamepadcode":  "gamepadCode",
	}
)

type (
	// Settings is the result of a successful Read.
	Settings struct {
		// Actions are the decoded actions in source order, null entries
		// skipped.
		Actions []inputaction.Action
		// RootNamespace is the namespace for generated code. Never empty.
		RootNamespace string
	}

	// ParseError reports the first action element that failed to decode.
	ParseError struct {
		// Index is the position of the element in the Actions list.
		Index int
		// Cause is the underlying decode or validation error.
		Cause error
	}

	compilerMeta struct {
		RootNamespace string
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: action %d: %v", ErrParseActionsFailed, e.Index, e.Cause)
}

// Unwrap exposes both ErrParseActionsFailed and the cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParseActionsFailed, e.Cause}
}

// Read loads the input actions and root namespace of p. It fails with
// ErrNoInputSettings when there is nothing to read and with a *ParseError
// (matching ErrParseActionsFailed) when any action is malformed. A missing or
// unusable root namespace is never an error.
func Read(p project.Project) (*Settings, error) {
	list, err := FindActions(p)
	if err != nil {
		return nil, err
	}
	actions, err := ParseActions(list)
	if err != nil {
		return nil, err
	}
	return &Settings{
		Actions:       actions,
		RootNamespace: RootNamespace(p),
	}, nil
}

// FindActions returns the InputSettings.Actions list of p, or
// ErrNoInputSettings when the entry or the list is missing.
func FindActions(p project.Project) (cue.Value, error) {
	meta, ok := p.ConfigMeta(InputSettingsKey)
	if !ok || meta.IsNull() {
		return cue.Value{}, ErrNoInputSettings
	}
	list, ok := lookupFold(meta, actionsField)
	if !ok || list.Kind() != cue.ListKind {
		return cue.Value{}, ErrNoInputSettings
	}
	return list, nil
}

// RootNamespace returns the project's Compiler.RootNamespace, or
// DefaultRootNamespace when it is absent, malformed or blank.
func RootNamespace(p project.Project) string {
	meta, ok := project.TryGetConfigMeta[compilerMeta](p, CompilerKey)
	if !ok {
		return DefaultRootNamespace
	}
	ns := strings.TrimSpace(meta.RootNamespace)
	if ns == "" {
		return DefaultRootNamespace
	}
	return ns
}

// ParseActions decodes every element of an Actions list in order. Null
// elements are skipped; the first malformed element aborts the parse with a
// *ParseError.
func ParseActions(list cue.Value) ([]inputaction.Action, error) {
	ctx := list.Context()
	schema, err := cueutil.CompileSchema(ctx, inputSettingsSchema, "#Action")
	if err != nil {
		return nil, err
	}

	iter, err := list.List()
	if err != nil {
		return nil, &ParseError{Index: 0, Cause: err}
	}

	var actions []inputaction.Action
	for i := 0; iter.Next(); i++ {
		elem := iter.Value()
		if elem.IsNull() {
			continue
		}
		if elem.Kind() != cue.StructKind {
			return nil, &ParseError{Index: i, Cause: fmt.Errorf("expected object, found %s", elem.Kind())}
		}

		canon, err := canonicalize(ctx, elem)
		if err != nil {
			return nil, &ParseError{Index: i, Cause: err}
		}
		action, err := cueutil.DecodeWith[inputaction.Action](schema, canon,
			cueutil.WithFilename(fmt.Sprintf("%s.%s[%d]", InputSettingsKey, actionsField, i)))
		if err != nil {
			return nil, &ParseError{Index: i, Cause: err}
		}
		if action.GamepadCode == "" {
			action.GamepadCode = inputaction.GamepadNone
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// canonicalize rebuilds an action object with known keys respelled to their
// schema form. Null fields are dropped so they read as absent; when several
// keys fold to the same name, the last one wins.
func canonicalize(ctx *cue.Context, elem cue.Value) (cue.Value, error) {
	iter, err := elem.Fields()
	if err != nil {
		return cue.Value{}, err
	}

	var (
		order  []string
		values = make(map[string]cue.Value)
	)
	for iter.Next() {
		v := iter.Value()
		if v.IsNull() {
			continue
		}
		key := iter.Selector().Unquoted()
		if canon, ok := canonicalFields[strings.ToLower(key)]; ok {
			key = canon
		}
		if _, seen := values[key]; !seen {
			order = append(order, key)
		}
		values[key] = v
	}

	out := ctx.CompileString("{}")
	for _, key := range order {
		out = out.FillPath(cue.MakePath(cue.Str(key)), values[key])
	}
	return out, out.Err()
}

// lookupFold finds a struct field by case-insensitive name, preferring an
// exact match.
func lookupFold(v cue.Value, name string) (cue.Value, bool) {
	if found, ok := cueutil.Lookup(v, name); ok {
		return found, true
	}
	if v.Kind() != cue.StructKind {
		return cue.Value{}, false
	}
	iter, err := v.Fields()
	if err != nil {
		return cue.Value{}, false
	}
	for iter.Next() {
		if strings.EqualFold(iter.Selector().Unquoted(), name) {
			return iter.Value(), true
		}
	}
	return cue.Value{}, false
}
