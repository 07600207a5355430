// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultProjectGlob matches .addon files in a search root and one level below.
const DefaultProjectGlob = "{*.addon,*/*.addon}"

// ErrInvalidProjectGlob is returned when the discovery glob does not compile.
var ErrInvalidProjectGlob = errors.New("invalid project glob")

// Workspace discovers AddonProjects under a set of search roots. Project
// identity is stable across rescans: a project found again under the same key
// keeps its *AddonProject, and a project whose .addon moved is updated in
// place.
type Workspace struct {
	roots []string
	glob  string

	mu       sync.Mutex
	projects map[string]*AddonProject
	subs     map[int]func()
	nextSub  int
}

// NewWorkspace creates a Workspace scanning roots with glob. An empty glob
// uses DefaultProjectGlob. No scan happens until Refresh is called.
func NewWorkspace(roots []string, glob string) (*Workspace, error) {
	if glob == "" {
		glob = DefaultProjectGlob
	}
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProjectGlob, glob)
	}

	absRoots := make([]string, 0, len(roots))
	for _, r := range roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("resolve search path %q: %w", r, err)
		}
		if !slices.Contains(absRoots, abs) {
			absRoots = append(absRoots, abs)
		}
	}

	return &Workspace{
		roots:    absRoots,
		glob:     glob,
		projects: make(map[string]*AddonProject),
		subs:     make(map[int]func()),
	}, nil
}

// Roots returns the absolute search roots.
func (w *Workspace) Roots() []string {
	return slices.Clone(w.roots)
}

// GetAllProjects returns every known project, ordered by key.
func (w *Workspace) GetAllProjects() []Project {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys := make([]string, 0, len(w.projects))
	for k := range w.projects {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Project, 0, len(keys))
	for _, k := range keys {
		out = append(out, w.projects[k])
	}
	return out
}

// Addons returns every known project as its concrete type, ordered by key.
func (w *Workspace) Addons() []*AddonProject {
	all := w.GetAllProjects()
	out := make([]*AddonProject, 0, len(all))
	for _, p := range all {
		out = append(out, p.(*AddonProject))
	}
	return out
}

// OnProjectsChanged registers fn to be called after a Refresh that changed
// the project set. The returned function removes the subscription.
func (w *Workspace) OnProjectsChanged(fn func()) (unsubscribe func()) {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Refresh rescans the search roots. It returns diagnostics for files and
// roots that were skipped, and reports whether the project set changed.
// Subscribers are notified synchronously when it did.
func (w *Workspace) Refresh() ([]Diagnostic, bool) {
	found, failed, diags := w.scan()

	w.mu.Lock()
	changed := false
	next := make(map[string]*AddonProject, len(found))
	// A known project whose .addon temporarily fails to parse keeps its
	// last good snapshot instead of dropping out of the set.
	for key, existing := range w.projects {
		if _, ok := failed[existing.AddonPath()]; ok {
			next[key] = existing
		}
	}
	for _, f := range found {
		key := f.Key()
		if _, taken := next[key]; taken {
			continue
		}
		if existing, ok := w.projects[key]; ok {
			if existing.AddonPath() != f.AddonPath() {
				if err := existing.relocate(f.AddonPath()); err != nil {
					diags = append(diags, parseDiagnostic(f.AddonPath(), err))
					continue
				}
				changed = true
			} else if err := existing.Refresh(); err != nil {
				diags = append(diags, parseDiagnostic(f.AddonPath(), err))
			}
			next[key] = existing
			continue
		}
		next[key] = f
		changed = true
	}
	for key := range w.projects {
		if _, ok := next[key]; !ok {
			changed = true
		}
	}
	w.projects = next

	var subs []func()
	if changed {
		ids := make([]int, 0, len(w.subs))
		for id := range w.subs {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			subs = append(subs, w.subs[id])
		}
	}
	w.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
	return diags, changed
}

// scan loads every .addon file matched under the roots. The first file seen
// for a key wins; later ones are reported as collisions. Paths that failed to
// load are returned in failed.
func (w *Workspace) scan() (found []*AddonProject, failed map[string]struct{}, diags []Diagnostic) {
	seen := make(map[string]string)
	failed = make(map[string]struct{})

	for _, root := range w.roots {
		matches, err := doublestar.Glob(os.DirFS(root), w.glob, doublestar.WithFilesOnly())
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeSearchPathInvalid,
				Message:  fmt.Sprintf("cannot scan search path: %v", err),
				Path:     root,
				Cause:    err,
			})
			continue
		}
		sort.Strings(matches)

		for _, rel := range matches {
			path := filepath.Join(root, filepath.FromSlash(rel))
			p, err := LoadAddon(path)
			if err != nil {
				failed[path] = struct{}{}
				diags = append(diags, parseDiagnostic(path, err))
				continue
			}
			key := p.Key()
			if first, dup := seen[key]; dup {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeProjectCollision,
					Message:  fmt.Sprintf("project %q is also defined in %s; ignoring this copy", key, first),
					Path:     path,
				})
				continue
			}
			seen[key] = path
			found = append(found, p)
		}
	}
	return found, failed, diags
}

func parseDiagnostic(path string, err error) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     CodeAddonParseFailed,
		Message:  err.Error(),
		Path:     path,
		Cause:    err,
	}
}
