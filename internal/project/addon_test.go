// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/peter-r-g/inputactions/internal/testutil"
)

const gameAddon = `{
  "Title": "My Game",
  "Type": "game",
  "Org": "local",
  "Ident": "mygame",
  "Summary": null,
  "Metadata": {
    "InputSettings": {
      "Actions": [
        {"Name": "Jump", "GroupName": "Movement", "KeyboardCode": "space", "GamepadCode": "A"}
      ]
    },
    "Compiler": {"RootNamespace": "MyGame"}
  }
}`

func writeAddon(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	testutil.MustWriteFile(t, path, content)
	return path
}

func TestLoadAddon(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeAddon(t, dir, "mygame.addon", gameAddon)

	p, err := LoadAddon(path)
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}

	if got := p.Title(); got != "My Game" {
		t.Errorf("Title() = %q, want My Game", got)
	}
	if !p.PackageType().IsGame() {
		t.Errorf("PackageType() = %q, want game", p.PackageType())
	}
	if got := p.Key(); got != "local.mygame" {
		t.Errorf("Key() = %q, want local.mygame", got)
	}
	if got := p.RootPath(); got != dir {
		t.Errorf("RootPath() = %q, want %q", got, dir)
	}
	if got, want := p.CodeOutputPath(), filepath.Join(dir, DefaultCodePath); got != want {
		t.Errorf("CodeOutputPath() = %q, want %q", got, want)
	}

	v, ok := p.ConfigMeta("InputSettings")
	if !ok {
		t.Fatal("ConfigMeta(InputSettings) not found")
	}
	actions := v.LookupPath(cuePath("Actions"))
	if n, err := actions.Len().Int64(); err != nil || n != 1 {
		t.Errorf("Actions length = %d (%v), want 1", n, err)
	}

	if _, ok := p.ConfigMeta("Missing"); ok {
		t.Error("ConfigMeta(Missing) reported found")
	}
}

func TestLoadAddon_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeAddon(t, filepath.Join(dir, "lib"), "lib.addon", `{"Type": "library", "CodePath": "src/code"}`)

	p, err := LoadAddon(path)
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}
	if p.PackageType().IsGame() {
		t.Error("library project reported as game")
	}
	if got := p.Title(); got != "lib" {
		t.Errorf("Title() = %q, want directory name fallback", got)
	}
	if got := p.Key(); got != path {
		t.Errorf("Key() = %q, want addon path fallback %q", got, path)
	}
	if got, want := p.CodeOutputPath(), filepath.Join(dir, "lib", "src", "code"); got != want {
		t.Errorf("CodeOutputPath() = %q, want %q", got, want)
	}
	if _, ok := p.ConfigMeta("InputSettings"); ok {
		t.Error("ConfigMeta on project without Metadata reported found")
	}
}

func TestLoadAddon_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{name: "wrong extension", file: "game.json", content: "{}", wantErr: ErrNotAddonFile},
		{name: "invalid json", file: "broken.addon", content: `{"Title": `},
		{name: "wrong field type", file: "typed.addon", content: `{"Title": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeAddon(t, dir, tt.file, tt.content)
			_, err := LoadAddon(path)
			if err == nil {
				t.Fatal("LoadAddon() expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddonProject_ConfigMetaSeesFileChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeAddon(t, dir, "mygame.addon", `{"Type": "game", "Metadata": {}}`)

	p, err := LoadAddon(path)
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}
	if _, ok := p.ConfigMeta("InputSettings"); ok {
		t.Fatal("InputSettings unexpectedly present")
	}

	writeAddon(t, dir, "mygame.addon", gameAddon)
	// Force a distinct mtime on filesystems with coarse timestamps.
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if _, ok := p.ConfigMeta("InputSettings"); !ok {
		t.Error("ConfigMeta did not pick up the rewritten .addon")
	}
}

func TestAddonProject_KeepsSnapshotOnBrokenRewrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeAddon(t, dir, "mygame.addon", gameAddon)

	p, err := LoadAddon(path)
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}

	writeAddon(t, dir, "mygame.addon", `{"Metadata": `)
	if err := p.Refresh(); err == nil {
		t.Error("Refresh() should report the parse failure")
	}
	if _, ok := p.ConfigMeta("InputSettings"); !ok {
		t.Error("previous snapshot should stay in effect")
	}
}

func TestAddonProject_Snapshot(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		change     func(t *testing.T, dir, path string)
		wantErr    error
		wantTitle  string
		liveDropped bool
	}{
		{
			name:      "unchanged file",
			change:    func(*testing.T, string, string) {},
			wantTitle: "My Game",
		},
		{
			name: "rewrite after the snapshot does not leak into it",
			change: func(t *testing.T, dir, path string) {
				writeAddon(t, dir, "mygame.addon", `{"Title": "Renamed", "Type": "game", "Metadata": {"Compiler": {"RootNamespace": "Other"}}}`)
				future := time.Now().Add(2 * time.Second)
				if err := os.Chtimes(path, future, future); err != nil {
					t.Fatalf("Chtimes: %v", err)
				}
			},
			wantTitle:  "My Game",
			liveDropped: true,
		},
		{
			name: "deleted file",
			change: func(t *testing.T, _, path string) {
				if err := os.Remove(path); err != nil {
					t.Fatalf("Remove: %v", err)
				}
			},
			wantErr: ErrProjectRemoved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := writeAddon(t, dir, "mygame.addon", gameAddon)
			p, err := LoadAddon(path)
			if err != nil {
				t.Fatalf("LoadAddon() error: %v", err)
			}

			if tt.wantErr != nil {
				tt.change(t, dir, path)
				if _, err := p.Snapshot(); !errors.Is(err, tt.wantErr) {
					t.Fatalf("Snapshot() error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			snap, err := p.Snapshot()
			if err != nil {
				t.Fatalf("Snapshot() error: %v", err)
			}
			tt.change(t, dir, path)

			if got := snap.Title(); got != tt.wantTitle {
				t.Errorf("snapshot Title() = %q, want %q", got, tt.wantTitle)
			}
			if _, ok := snap.ConfigMeta("InputSettings"); !ok {
				t.Error("snapshot lost InputSettings")
			}
			if got := snap.RootPath(); got != dir {
				t.Errorf("snapshot RootPath() = %q, want %q", got, dir)
			}
			if _, ok := p.ConfigMeta("InputSettings"); ok == tt.liveDropped {
				t.Errorf("live InputSettings present = %v, want %v", ok, !tt.liveDropped)
			}
		})
	}
}

func TestFreeze(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := LoadAddon(writeAddon(t, dir, "mygame.addon", gameAddon))
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}

	got, err := Freeze(p)
	if err != nil {
		t.Fatalf("Freeze() error: %v", err)
	}
	if got == Project(p) {
		t.Error("Freeze() returned the live project, want a snapshot")
	}
	if got.Title() != p.Title() {
		t.Errorf("Freeze() Title() = %q, want %q", got.Title(), p.Title())
	}
}

func TestTryGetConfigMeta(t *testing.T) {
	t.Parallel()

	type compilerMeta struct {
		RootNamespace string
	}

	dir := t.TempDir()
	path := writeAddon(t, dir, "mygame.addon", `{
  "Type": "game",
  "Metadata": {
    "Compiler": {"rootnamespace": "Lowered"},
    "Broken": "not an object"
  }
}`)
	p, err := LoadAddon(path)
	if err != nil {
		t.Fatalf("LoadAddon() error: %v", err)
	}

	got, ok := TryGetConfigMeta[compilerMeta](p, "Compiler")
	if !ok {
		t.Fatal("TryGetConfigMeta(Compiler) failed")
	}
	if got.RootNamespace != "Lowered" {
		t.Errorf("RootNamespace = %q, want case-insensitive bind to Lowered", got.RootNamespace)
	}

	if _, ok := TryGetConfigMeta[compilerMeta](p, "Broken"); ok {
		t.Error("TryGetConfigMeta(Broken) should fail to decode")
	}
	if _, ok := TryGetConfigMeta[compilerMeta](p, "Absent"); ok {
		t.Error("TryGetConfigMeta(Absent) should report false")
	}
}

func TestPackageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pt       PackageType
		wantGame bool
		wantStr  string
	}{
		{PackageTypeGame, true, "game"},
		{"Game", true, "Game"},
		{PackageTypeLibrary, false, "library"},
		{"", false, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.pt.IsGame(); got != tt.wantGame {
			t.Errorf("%q.IsGame() = %v, want %v", tt.pt, got, tt.wantGame)
		}
		if got := tt.pt.String(); got != tt.wantStr {
			t.Errorf("%q.String() = %q, want %q", tt.pt, got, tt.wantStr)
		}
	}
}
