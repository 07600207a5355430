// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func addonFor(org, ident string) string {
	return `{"Type": "game", "Org": "` + org + `", "Ident": "` + ident + `"}`
}

func TestNewWorkspace_InvalidGlob(t *testing.T) {
	t.Parallel()

	_, err := NewWorkspace([]string{t.TempDir()}, "{unclosed")
	if !errors.Is(err, ErrInvalidProjectGlob) {
		t.Errorf("NewWorkspace() error = %v, want ErrInvalidProjectGlob", err)
	}
}

func TestWorkspace_Refresh(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAddon(t, root, "top.addon", addonFor("local", "top"))
	writeAddon(t, filepath.Join(root, "nested"), "nested.addon", addonFor("local", "nested"))
	writeAddon(t, filepath.Join(root, "a", "b"), "deep.addon", addonFor("local", "deep"))
	writeAddon(t, root, "broken.addon", `{`)

	ws, err := NewWorkspace([]string{root, root}, "")
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}

	var notified atomic.Int32
	unsubscribe := ws.OnProjectsChanged(func() { notified.Add(1) })
	defer unsubscribe()

	diags, changed := ws.Refresh()
	if !changed {
		t.Error("first Refresh() should report a change")
	}
	if notified.Load() != 1 {
		t.Errorf("subscribers notified %d times, want 1", notified.Load())
	}
	if len(diags) != 1 || diags[0].Code != CodeAddonParseFailed {
		t.Errorf("diagnostics = %+v, want one addon_parse_failed", diags)
	}

	var keys []string
	for _, p := range ws.Addons() {
		keys = append(keys, p.Key())
	}
	// The default glob only reaches one level below the root.
	want := []string{"local.nested", "local.top"}
	if len(keys) != len(want) || keys[0] != want[0] || keys[1] != want[1] {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	if _, changed := ws.Refresh(); changed {
		t.Error("unchanged rescan reported a change")
	}
	if notified.Load() != 1 {
		t.Errorf("subscribers notified %d times after no-op rescan, want 1", notified.Load())
	}
}

func TestWorkspace_IdentityAndRelocation(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	oldPath := writeAddon(t, filepath.Join(root, "old"), "game.addon", addonFor("local", "game"))

	ws, err := NewWorkspace([]string{root}, "")
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	ws.Refresh()

	before := ws.GetAllProjects()
	if len(before) != 1 {
		t.Fatalf("projects = %d, want 1", len(before))
	}

	newDir := filepath.Join(root, "new")
	if err := os.MkdirAll(newDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(oldPath, filepath.Join(newDir, "game.addon")); err != nil {
		t.Fatal(err)
	}

	_, changed := ws.Refresh()
	if !changed {
		t.Error("relocation should report a change")
	}
	after := ws.GetAllProjects()
	if len(after) != 1 {
		t.Fatalf("projects = %d, want 1", len(after))
	}
	if after[0] != before[0] {
		t.Error("relocated project should keep its identity")
	}
	if got := after[0].RootPath(); got != newDir {
		t.Errorf("RootPath() = %q, want %q", got, newDir)
	}
}

func TestWorkspace_RemovalAndBrokenRewrite(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	keep := writeAddon(t, filepath.Join(root, "keep"), "keep.addon", addonFor("local", "keep"))
	gone := writeAddon(t, filepath.Join(root, "gone"), "gone.addon", addonFor("local", "gone"))

	ws, err := NewWorkspace([]string{root}, "")
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	ws.Refresh()

	if err := os.Remove(gone); err != nil {
		t.Fatal(err)
	}
	writeAddon(t, filepath.Dir(keep), "keep.addon", `{"Org": `)

	diags, changed := ws.Refresh()
	if !changed {
		t.Error("removal should report a change")
	}
	if len(diags) != 1 {
		t.Errorf("diagnostics = %+v, want one for the broken rewrite", diags)
	}

	projects := ws.Addons()
	if len(projects) != 1 || projects[0].Key() != "local.keep" {
		t.Errorf("projects after rescan = %v, want only local.keep", projects)
	}
}

func TestWorkspace_Collision(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAddon(t, filepath.Join(root, "a"), "game.addon", addonFor("local", "game"))
	writeAddon(t, filepath.Join(root, "b"), "game.addon", addonFor("local", "game"))

	ws, err := NewWorkspace([]string{root}, "")
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}
	diags, _ := ws.Refresh()

	if len(ws.GetAllProjects()) != 1 {
		t.Errorf("projects = %d, want 1", len(ws.GetAllProjects()))
	}
	if len(diags) != 1 || diags[0].Code != CodeProjectCollision {
		t.Errorf("diagnostics = %+v, want one project_collision", diags)
	}
}

func TestWorkspace_Unsubscribe(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ws, err := NewWorkspace([]string{root}, "")
	if err != nil {
		t.Fatalf("NewWorkspace() error: %v", err)
	}

	var calls atomic.Int32
	unsubscribe := ws.OnProjectsChanged(func() { calls.Add(1) })
	unsubscribe()

	writeAddon(t, root, "game.addon", addonFor("local", "game"))
	ws.Refresh()

	if calls.Load() != 0 {
		t.Errorf("unsubscribed callback called %d times", calls.Load())
	}
}
