// SPDX-License-Identifier: MPL-2.0

// Package watch provides per-directory file watching and the rate gate used
// to throttle change notifications.
//
// A Watcher hands out one Handle per watched directory. Each handle owns an
// fsnotify watcher and a goroutine that forwards write and create events for
// files whose base name matches a doublestar filter. Handles can be re-pointed
// at another directory in place with SetPath.
package watch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ErrHandleClosed is returned by SetPath on a handle that was already closed.
var ErrHandleClosed = errors.New("watch handle closed")

type (
	// Event describes a single matching filesystem change.
	Event struct {
		// Path is the absolute path of the changed file.
		Path string
		// Op is the fsnotify operation that triggered the event.
		Op fsnotify.Op
	}

	// Handle is a live watch registration.
	Handle interface {
		io.Closer
		// SetPath moves the watch to a different directory, keeping the
		// filter and callback.
		SetPath(path string) error
		// Path returns the directory currently being watched.
		Path() string
		// Done is closed once the handle stops forwarding events, either
		// after Close or after a fatal watcher error.
		Done() <-chan struct{}
	}

	// Watcher creates directory watches. The zero value is not usable; use New.
	Watcher struct {
		logger *log.Logger
	}

	// Option configures a Watcher.
	Option func(*Watcher)

	// handle is the fsnotify-backed Handle.
	handle struct {
		fsw      *fsnotify.Watcher
		filter   string
		onChange func(Event)
		logger   *log.Logger

		mu     sync.Mutex
		path   string
		closed bool
		done   chan struct{}
	}
)

// WithLogger sets the logger used for non-fatal watcher errors.
func WithLogger(logger *log.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a Watcher.
func New(opts ...Option) *Watcher {
	w := &Watcher{
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "watch"}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts watching the directory at path. onChange is invoked from the
// handle's goroutine for every write or create of a file whose base name
// matches filter (a doublestar pattern such as "*.addon"). An empty filter
// matches every file.
func (w *Watcher) Watch(path, filter string, onChange func(Event)) (Handle, error) {
	if filter != "" {
		if _, err := doublestar.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("watch: invalid filter %q: %w", filter, err)
		}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %q: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(absPath); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch: add directory %q: %w", absPath, err)
	}

	h := &handle{
		fsw:      fsw,
		filter:   filter,
		onChange: onChange,
		logger:   w.logger,
		path:     absPath,
		done:     make(chan struct{}),
	}
	go h.run()
	return h, nil
}

// Path returns the directory currently being watched.
func (h *handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.path
}

// Done is closed when the handle's goroutine exits.
func (h *handle) Done() <-chan struct{} {
	return h.done
}

// SetPath moves the watch to path. On failure the previous directory stays
// watched.
func (h *handle) SetPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: resolve %q: %w", path, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHandleClosed
	}
	if absPath == h.path {
		return nil
	}
	if err := h.fsw.Add(absPath); err != nil {
		return fmt.Errorf("watch: add directory %q: %w", absPath, err)
	}
	// The old directory may already be gone, in which case fsnotify has
	// dropped it on its own.
	if err := h.fsw.Remove(h.path); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		h.logger.Debug("remove previous watch", "path", h.path, "error", err)
	}
	h.path = absPath
	return nil
}

// Close stops the watch and waits for its goroutine to exit. Closing twice is
// a no-op.
func (h *handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	err := h.fsw.Close()
	<-h.done
	if err != nil {
		return fmt.Errorf("watch: close fsnotify: %w", err)
	}
	return nil
}

func (h *handle) run() {
	defer close(h.done)

	for {
		select {
		case evt, ok := <-h.fsw.Events:
			if !ok {
				return
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			if !h.matches(evt.Name) {
				continue
			}
			if h.onChange != nil {
				h.onChange(Event{Path: evt.Name, Op: evt.Op})
			}

		case err, ok := <-h.fsw.Errors:
			if !ok {
				return
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				h.logger.Error("fatal fsnotify error, watch stopped", "path", h.Path(), "error", err)
				return
			}
			h.logger.Warn("fsnotify error", "path", h.Path(), "error", err)
		}
	}
}

func (h *handle) matches(name string) bool {
	if h.filter == "" {
		return true
	}
	matched, err := doublestar.Match(h.filter, filepath.Base(name))
	return err == nil && matched
}
