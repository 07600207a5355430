// SPDX-License-Identifier: MPL-2.0

// Package projecttest provides an in-memory project.Project for tests.
package projecttest

import (
	"path/filepath"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/exp/maps"

	"github.com/peter-r-g/inputactions/internal/project"
)

// Project is a mutable in-memory project.Project. Config meta entries are
// stored as JSON text and compiled into a fresh CUE context on every lookup.
type Project struct {
	mu          sync.Mutex
	packageType project.PackageType
	root        string
	codePath    string
	title       string
	meta        map[string]string
}

// New returns a gamemode project rooted at root with code under root/code.
func New(root string) *Project {
	return &Project{
		packageType: project.PackageTypeGame,
		root:        root,
		codePath:    filepath.Join(root, project.DefaultCodePath),
		title:       filepath.Base(root),
		meta:        make(map[string]string),
	}
}

// WithMeta stores a JSON config-meta entry and returns p for chaining.
func (p *Project) WithMeta(key, json string) *Project {
	p.SetMeta(key, json)
	return p
}

// WithType sets the package type and returns p for chaining.
func (p *Project) WithType(t project.PackageType) *Project {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.packageType = t
	return p
}

// SetMeta stores a JSON config-meta entry.
func (p *Project) SetMeta(key, json string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.meta[key] = json
}

// DeleteMeta removes a config-meta entry.
func (p *Project) DeleteMeta(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.meta, key)
}

// SetRoot moves the project, keeping the code directory relative to it.
func (p *Project) SetRoot(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = root
	p.codePath = filepath.Join(root, project.DefaultCodePath)
}

// SetCodeOutputPath overrides the code directory.
func (p *Project) SetCodeOutputPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codePath = path
}

// PackageType implements project.Project.
func (p *Project) PackageType() project.PackageType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.packageType
}

// RootPath implements project.Project.
func (p *Project) RootPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root
}

// CodeOutputPath implements project.Project.
func (p *Project) CodeOutputPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.codePath
}

// Title implements project.Project.
func (p *Project) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.title
}

// ConfigMeta implements project.Project. Entries that fail to compile read
// as absent.
func (p *Project) ConfigMeta(key string) (cue.Value, bool) {
	p.mu.Lock()
	raw, ok := p.meta[key]
	p.mu.Unlock()
	if !ok {
		return cue.Value{}, false
	}
	v := cuecontext.New().CompileString(raw)
	if v.Err() != nil {
		return cue.Value{}, false
	}
	return v, true
}

// Snapshot implements project.Snapshotter. The copy does not follow later
// changes to p.
func (p *Project) Snapshot() (project.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &Project{
		packageType: p.packageType,
		root:        p.root,
		codePath:    p.codePath,
		title:       p.title,
		meta:        maps.Clone(p.meta),
	}, nil
}
