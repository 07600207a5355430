// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoInputSettingsId Id = iota + 1
	ParseActionsFailedId
	OutputUnavailableId
	ConfigLoadFailedId
	ProjectLoadFailedId
	ProjectCollisionId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	name     string      // stable name accepted by Lookup
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue text with its links appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	noInputSettingsIssue = &Issue{
		id:   NoInputSettingsId,
		name: "NoInputSettings",
		mdMsg: `
# No input settings found!

The project's ` + "`.addon`" + ` file has no ` + "`InputSettings`" + ` metadata entry, or the
entry has no ` + "`Actions`" + ` list. Nothing was generated and any existing
generated file was left untouched.

## Things you can try:
- Add an ` + "`InputSettings`" + ` entry under ` + "`Metadata`" + ` in the ` + "`.addon`" + ` file:
~~~json
"Metadata": {
  "InputSettings": {
    "Actions": [
      { "Name": "Jump", "GroupName": "Movement", "KeyboardCode": "space", "GamepadCode": "A" }
    ]
  }
}
~~~

- Open the project's input settings in the editor and save them once`,
	}

	parseActionsFailedIssue = &Issue{
		id:   ParseActionsFailedId,
		name: "ParseActionsFailed",
		mdMsg: `
# Failed to parse input actions!

One of the entries in ` + "`InputSettings.Actions`" + ` is not a valid action.
The error names the index of the first bad entry.

## Common causes:
- An entry is a string or number instead of an object
- ` + "`GamepadCode`" + ` is not one of the known codes (they are case-sensitive)
- ` + "`Name`" + `, ` + "`GroupName`" + ` or ` + "`KeyboardCode`" + ` is not a string

## Valid gamepad codes:
None, A, B, X, Y, SwitchLeftMenu, SwitchRightMenu, Guide, LeftJoystickButton,
RightJoystickButton, SwitchLeftBumper, SwitchRightBumper, DpadNorth, DpadSouth,
DpadWest, DpadEast, Misc1, Paddle1, Paddle2, Paddle3, Paddle4, Touchpad,
LeftTrigger, RightTrigger`,
	}

	outputUnavailableIssue = &Issue{
		id:   OutputUnavailableId,
		name: "OutputUnavailable",
		mdMsg: `
# Could not write the generated file!

The actions were read, but ` + "`Generated/InputActions.generated.cs`" + ` under the
project's code path could not be created or replaced.

## Things you can try:
- Check that the code directory exists and is writable
- Make sure no other program holds the file open
- Check that ` + "`CodePath`" + ` in the ` + "`.addon`" + ` file points inside the project`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "ConfigLoadFailed",
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ inputactions config show
~~~

- Recreate the default file:
~~~
$ inputactions config init --force
~~~

- Durations use Go syntax, for example:
~~~cue
watch: {
	debounce: "100ms"
	rescan:   "5s"
}
~~~`,
		extLinks: []HttpLink{
			"https://cuelang.org/docs/",
			"https://pkg.go.dev/time#ParseDuration",
		},
	}

	projectLoadFailedIssue = &Issue{
		id:   ProjectLoadFailedId,
		name: "ProjectLoadFailed",
		mdMsg: `
# Failed to load a project!

An ` + "`.addon`" + ` file could not be parsed. A project that loaded before keeps
its last good settings until the file parses again.

## Things you can try:
- Check the file for JSON syntax errors such as trailing commas
- Make sure ` + "`Org`" + `, ` + "`Ident`" + ` and ` + "`Type`" + ` are strings`,
	}

	projectCollisionIssue = &Issue{
		id:   ProjectCollisionId,
		name: "ProjectCollision",
		mdMsg: `
# Two projects share an identity!

Two ` + "`.addon`" + ` files declare the same ` + "`Org`" + ` and ` + "`Ident`" + `.
Only the first one found is watched.

## Things you can try:
- Give one of the projects a different ` + "`Ident`" + `
- Remove the duplicate project from the search paths`,
	}

	issues = map[Id]*Issue{
		noInputSettingsIssue.Id():    noInputSettingsIssue,
		parseActionsFailedIssue.Id(): parseActionsFailedIssue,
		outputUnavailableIssue.Id():  outputUnavailableIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		projectLoadFailedIssue.Id():  projectLoadFailedIssue,
		projectCollisionIssue.Id():   projectCollisionIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

// Names returns the name of every issue, sorted.
func Names() []string {
	names := make([]string, 0, len(issues))
	for _, i := range issues {
		names = append(names, i.name)
	}
	slices.Sort(names)
	return names
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by name, ignoring case.
func Lookup(name string) (*Issue, bool) {
	for _, i := range issues {
		if strings.EqualFold(i.name, name) {
			return i, true
		}
	}
	return nil, false
}
