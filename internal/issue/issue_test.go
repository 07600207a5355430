// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	t.Parallel()

	ids := []Id{
		NoInputSettingsId,
		ParseActionsFailedId,
		OutputUnavailableId,
		ConfigLoadFailedId,
		ProjectLoadFailedId,
		ProjectCollisionId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
		if Get(id) == nil {
			t.Errorf("Get(%d) returned nil", id)
		}
	}

	if NoInputSettingsId != 1 {
		t.Errorf("NoInputSettingsId = %d, want 1", NoInputSettingsId)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id       Id
		wantNil  bool
		contains string
	}{
		{NoInputSettingsId, false, "No input settings found"},
		{ParseActionsFailedId, false, "Failed to parse input actions"},
		{OutputUnavailableId, false, "Could not write the generated file"},
		{ConfigLoadFailedId, false, "Failed to load configuration"},
		{ProjectLoadFailedId, false, "Failed to load a project"},
		{ProjectCollisionId, false, "share an identity"},
		{Id(9999), true, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			t.Parallel()
			issue := Get(tt.id)

			if tt.wantNil {
				if issue != nil {
					t.Errorf("Get(%d) should return nil", tt.id)
				}
				return
			}

			if issue == nil {
				t.Fatalf("Get(%d) returned nil", tt.id)
			}
			if issue.Id() != tt.id {
				t.Errorf("Id() = %d, want %d", issue.Id(), tt.id)
			}
			if !strings.Contains(string(issue.MarkdownMsg()), tt.contains) {
				t.Errorf("Get(%d).MarkdownMsg() should contain %q", tt.id, tt.contains)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		wantID Id
		wantOK bool
	}{
		{"NoInputSettings", NoInputSettingsId, true},
		{"parseactionsfailed", ParseActionsFailedId, true},
		{"OUTPUTUNAVAILABLE", OutputUnavailableId, true},
		{"ConfigLoadFailed", ConfigLoadFailedId, true},
		{"Finished", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if ok && got.Id() != tt.wantID {
				t.Errorf("Lookup(%q) = %d, want %d", tt.name, got.Id(), tt.wantID)
			}
		})
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Errorf("Values() not ordered by Id at %d", i)
		}
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(issues) {
		t.Fatalf("Names() returned %d names, want %d", len(names), len(issues))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %v", names)
		}
	}
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			t.Errorf("Lookup(%q) failed for a listed name", name)
		}
	}
}

func TestIssue_ExtLinks(t *testing.T) {
	t.Parallel()

	issue := Get(ConfigLoadFailedId)
	links := issue.ExtLinks()
	if len(links) == 0 {
		t.Fatal("expected config issue to carry links")
	}

	original := links[0]
	links[0] = "modified"
	if issue.ExtLinks()[0] != original {
		t.Error("ExtLinks() should return a clone")
	}
}

func TestIssue_Markdown(t *testing.T) {
	t.Parallel()

	md := Get(ConfigLoadFailedId).Markdown()
	if !strings.Contains(md, "## See also") || !strings.Contains(md, "<https://cuelang.org/docs/>") {
		t.Errorf("Markdown() should list links, got:\n%s", md)
	}

	md = Get(NoInputSettingsId).Markdown()
	if strings.Contains(md, "See also") {
		t.Errorf("Markdown() without links should not have a See also section:\n%s", md)
	}
}

func TestIssue_Render(t *testing.T) {
	originalRender := render
	defer func() { render = originalRender }()

	var gotStyle string
	render = func(in string, stylePath string) (string, error) {
		gotStyle = stylePath
		return in, nil
	}

	rendered, err := Get(ParseActionsFailedId).Render("dark")
	if err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if gotStyle != "dark" {
		t.Errorf("style = %q, want dark", gotStyle)
	}
	if !strings.Contains(rendered, "DpadNorth") {
		t.Error("Render() output should list gamepad codes")
	}
}
