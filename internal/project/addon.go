// SPDX-License-Identifier: MPL-2.0

package project

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/peter-r-g/inputactions/pkg/cueutil"
)

const (
	// AddonExt is the project file extension.
	AddonExt = ".addon"

	// DefaultCodePath is the code directory used when an .addon omits CodePath.
	DefaultCodePath = "code"
)

var (
	//go:embed addon_schema.cue
	addonSchema string

	// ErrNotAddonFile is returned when a path does not name an .addon file.
	ErrNotAddonFile = errors.New("not an .addon file")
)

type (
	// AddonProject is a Project backed by an .addon file. It re-reads the file
	// when its size or modification time changes, so every regeneration pass
	// sees the current configuration. When a re-read fails, the previous
	// snapshot stays in effect.
	AddonProject struct {
		mu       sync.Mutex
		path     string
		snapshot addonSnapshot
		modTime  time.Time
		size     int64
	}

	// addonSnapshot is the decoded content of one .addon read.
	addonSnapshot struct {
		title       string
		packageType PackageType
		org         string
		ident       string
		codePath    string
		// metadata holds each Metadata entry re-encoded as JSON. Entries are
		// compiled into a fresh CUE context on every lookup, so values handed
		// out by ConfigMeta never share state between goroutines.
		metadata map[string][]byte
	}

	// frozenAddon is an AddonProject as of one read of its .addon file.
	frozenAddon struct {
		path string
		snap addonSnapshot
	}

	// addonFields mirrors #Addon for decoding.
	addonFields struct {
		Title    *string `json:"Title"`
		Type     *string `json:"Type"`
		Org      *string `json:"Org"`
		Ident    *string `json:"Ident"`
		CodePath *string `json:"CodePath"`
	}
)

// LoadAddon reads and parses the .addon file at path.
func LoadAddon(path string) (*AddonProject, error) {
	if !strings.EqualFold(filepath.Ext(path), AddonExt) {
		return nil, fmt.Errorf("%w: %s", ErrNotAddonFile, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	p := &AddonProject{path: absPath}
	if err := p.reloadLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

// AddonPath returns the absolute path of the backing .addon file.
func (p *AddonProject) AddonPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.path
}

// Key identifies the project across rescans: "Org.Ident" when both are set,
// otherwise the .addon path.
func (p *AddonProject) Key() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot.key(p.path)
}

// PackageType implements Project.
func (p *AddonProject) PackageType() PackageType {
	return p.view().PackageType()
}

// RootPath implements Project.
func (p *AddonProject) RootPath() string {
	return p.view().RootPath()
}

// CodeOutputPath implements Project.
func (p *AddonProject) CodeOutputPath() string {
	return p.view().CodeOutputPath()
}

// Title implements Project. Falls back to the ident, then the directory name.
func (p *AddonProject) Title() string {
	return p.view().Title()
}

// ConfigMeta implements Project. The .addon file is re-read first if it
// changed on disk.
func (p *AddonProject) ConfigMeta(key string) (cue.Value, bool) {
	p.mu.Lock()
	p.refreshLocked()
	v := frozenAddon{path: p.path, snap: p.snapshot}
	p.mu.Unlock()
	return v.ConfigMeta(key)
}

// Snapshot implements Snapshotter. The .addon file is re-read if it changed;
// a file that can no longer be read keeps the previous configuration, and a
// file that is gone yields ErrProjectRemoved.
func (p *AddonProject) Snapshot() (Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.refreshIfChangedLocked(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrProjectRemoved, p.path)
		}
		slog.Warn("keeping previous project configuration", "path", p.path, "error", err)
	}
	return &frozenAddon{path: p.path, snap: p.snapshot}, nil
}

func (p *AddonProject) view() frozenAddon {
	p.mu.Lock()
	defer p.mu.Unlock()
	return frozenAddon{path: p.path, snap: p.snapshot}
}

// Refresh re-reads the .addon file if it changed on disk.
func (p *AddonProject) Refresh() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshIfChangedLocked()
}

// relocate points the project at a new .addon path and reloads it.
func (p *AddonProject) relocate(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path = path
	return p.reloadLocked()
}

func (p *AddonProject) refreshLocked() {
	if err := p.refreshIfChangedLocked(); err != nil {
		slog.Warn("keeping previous project configuration", "path", p.path, "error", err)
	}
}

func (p *AddonProject) refreshIfChangedLocked() error {
	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", p.path, err)
	}
	if info.ModTime().Equal(p.modTime) && info.Size() == p.size {
		return nil
	}
	return p.reloadLocked()
}

// reloadLocked reads and decodes the .addon file, replacing the snapshot only
// on success.
func (p *AddonProject) reloadLocked() error {
	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", p.path, err)
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", p.path, err)
	}

	snap, err := parseAddon(data, p.path)
	if err != nil {
		return err
	}

	p.snapshot = snap
	p.modTime = info.ModTime()
	p.size = info.Size()
	return nil
}

// parseAddon decodes .addon JSON into a snapshot.
func parseAddon(data []byte, filename string) (addonSnapshot, error) {
	ctx := cuecontext.New()

	schema, err := cueutil.CompileSchema(ctx, addonSchema, "#Addon")
	if err != nil {
		return addonSnapshot{}, err
	}
	v, err := cueutil.CompileWith(ctx, data, cueutil.WithFilename(filename))
	if err != nil {
		return addonSnapshot{}, err
	}
	fields, err := cueutil.DecodeWith[addonFields](schema, v, cueutil.WithFilename(filename))
	if err != nil {
		return addonSnapshot{}, err
	}

	snap := addonSnapshot{
		title:       deref(fields.Title),
		packageType: PackageType(deref(fields.Type)),
		org:         deref(fields.Org),
		ident:       deref(fields.Ident),
		codePath:    strings.TrimSpace(deref(fields.CodePath)),
		metadata:    make(map[string][]byte),
	}
	if snap.codePath == "" {
		snap.codePath = DefaultCodePath
	}

	meta, ok := cueutil.Lookup(v, "Metadata")
	if !ok || meta.IsNull() {
		return snap, nil
	}
	iter, err := meta.Fields()
	if err != nil {
		return addonSnapshot{}, cueutil.FormatError(err, filename)
	}
	for iter.Next() {
		raw, err := iter.Value().MarshalJSON()
		if err != nil {
			return addonSnapshot{}, cueutil.FormatError(err, filename)
		}
		snap.metadata[iter.Selector().Unquoted()] = raw
	}
	return snap, nil
}

func (f frozenAddon) PackageType() PackageType { return f.snap.packageType }

func (f frozenAddon) RootPath() string { return filepath.Dir(f.path) }

func (f frozenAddon) CodeOutputPath() string {
	return filepath.Join(filepath.Dir(f.path), filepath.FromSlash(f.snap.codePath))
}

func (f frozenAddon) Title() string {
	switch {
	case f.snap.title != "":
		return f.snap.title
	case f.snap.ident != "":
		return f.snap.ident
	default:
		return filepath.Base(filepath.Dir(f.path))
	}
}

// ConfigMeta compiles the entry into a fresh CUE context, so values never
// share state between goroutines.
func (f frozenAddon) ConfigMeta(key string) (cue.Value, bool) {
	raw, ok := f.snap.metadata[key]
	if !ok {
		return cue.Value{}, false
	}
	v := cuecontext.New().CompileBytes(raw, cue.Filename(key))
	if v.Err() != nil {
		return cue.Value{}, false
	}
	return v, true
}

func (s addonSnapshot) key(path string) string {
	if s.org != "" && s.ident != "" {
		return s.org + "." + s.ident
	}
	return path
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
