// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"errors"
	"io"
	"path/filepath"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/peter-r-g/inputactions/internal/inputsettings"
	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/project/projecttest"
	"github.com/peter-r-g/inputactions/internal/watch"
)

const jumpSettings = `{"Actions": [{"Name": "Jump", "GroupName": "Movement", "KeyboardCode": "Space", "GamepadCode": "A"}]}`

type (
	recordingObserver struct {
		mu     sync.Mutex
		stages []Stage
		kinds  []ErrorKind
		errs   []error
	}

	fakeSource struct {
		mu       sync.Mutex
		projects []project.Project
		subs     map[int]func()
		next     int
	}

	fakeWatcher struct {
		mu      sync.Mutex
		handles []*fakeHandle
		fail    error
		// onWatch runs after each successful Watch, before it returns.
		onWatch func()
	}

	fakeHandle struct {
		mu       sync.Mutex
		path     string
		onChange func(watch.Event)
		closed   bool
		done     chan struct{}
		stopOnce sync.Once
	}
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newGameProject(root string) *projecttest.Project {
	return projecttest.New(root).WithMeta(inputsettings.InputSettingsKey, jumpSettings)
}

func (o *recordingObserver) OnStage(s Stage) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, s)
}

func (o *recordingObserver) OnError(k ErrorKind, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kinds = append(o.kinds, k)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) Stages() []Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.stages)
}

func (o *recordingObserver) Kinds() []ErrorKind {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.kinds)
}

func newFakeSource(projects ...project.Project) *fakeSource {
	return &fakeSource{projects: projects, subs: make(map[int]func())}
}

func (s *fakeSource) GetAllProjects() []project.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects)
}

func (s *fakeSource) OnProjectsChanged(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Set replaces the project set and fires the change event.
func (s *fakeSource) Set(projects ...project.Project) {
	s.mu.Lock()
	s.projects = projects
	var subs []func()
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (w *fakeWatcher) Watch(path, _ string, onChange func(watch.Event)) (watch.Handle, error) {
	w.mu.Lock()
	if w.fail != nil {
		w.mu.Unlock()
		return nil, w.fail
	}
	h := &fakeHandle{path: path, onChange: onChange, done: make(chan struct{})}
	w.handles = append(w.handles, h)
	hook := w.onWatch
	w.mu.Unlock()

	if hook != nil {
		hook()
	}
	return h, nil
}

func (w *fakeWatcher) SetFail(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fail = err
}

// Open returns the handles that are not closed.
func (w *fakeWatcher) Open() []*fakeHandle {
	w.mu.Lock()
	defer w.mu.Unlock()
	var open []*fakeHandle
	for _, h := range w.handles {
		if !h.isClosed() {
			open = append(open, h)
		}
	}
	return open
}

func (w *fakeWatcher) Created() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.handles)
}

func (h *fakeHandle) Fire(name string) {
	h.mu.Lock()
	cb, path, closed := h.onChange, h.path, h.closed
	h.mu.Unlock()
	if !closed && cb != nil {
		cb(watch.Event{Path: filepath.Join(path, name)})
	}
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.Stop()
	return nil
}

// Stop ends event delivery without closing the handle, as a fatal watcher
// error does.
func (h *fakeHandle) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *fakeHandle) Done() <-chan struct{} {
	return h.done
}

func (h *fakeHandle) SetPath(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return watch.ErrHandleClosed
	}
	h.path = path
	return nil
}

func (h *fakeHandle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

func (h *fakeHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// failingWriter fails every Open.
type failingWriter struct{}

func (failingWriter) Open(path string) (OutputFile, error) {
	return nil, &OutputError{Path: path, Op: "open", Err: errors.New("disk on fire")}
}
