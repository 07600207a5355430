// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/watch"
)

const (
	// AddonFilter selects the files whose changes trigger regeneration.
	AddonFilter = "*" + project.AddonExt

	// DefaultTick is the interval between reconcile and drain rounds.
	DefaultTick = 250 * time.Millisecond
)

// ErrNoProjectSource is returned by NewScheduler when Options.Projects is nil.
var ErrNoProjectSource = errors.New("regen: project source is required")

type (
	// ProjectSource enumerates known projects and announces changes to the
	// set.
	ProjectSource interface {
		GetAllProjects() []project.Project
		OnProjectsChanged(fn func()) (unsubscribe func())
	}

	// Watcher creates directory watches. *watch.Watcher implements it.
	Watcher interface {
		Watch(path, filter string, onChange func(watch.Event)) (watch.Handle, error)
	}

	// Options configures a Scheduler. Only Projects is required.
	Options struct {
		// Projects supplies the projects to keep in sync.
		Projects ProjectSource
		// Watcher creates the per-project watches. Defaults to watch.New().
		Watcher Watcher
		// Observers creates the observer of each pass. Defaults to a
		// LogObserver on Logger.
		Observers ObserverFactory
		// Clock timestamps change events for debouncing. Defaults to the
		// system clock.
		Clock watch.Clock
		// Debounce is the minimum interval between accepted change events of
		// one project. Defaults to watch.DefaultDebounce.
		Debounce time.Duration
		// Logger receives scheduler diagnostics.
		Logger *log.Logger
		// Writer opens pass output. Defaults to AtomicWriter.
		Writer OutputWriter
	}

	// Scheduler owns the watch registry and request queue for a set of
	// projects and runs regeneration passes for them. Passes for different
	// projects run concurrently; a request for a project whose pass is
	// running makes that pass run once more when it completes.
	Scheduler struct {
		projects  ProjectSource
		watcher   Watcher
		observers ObserverFactory
		clock     watch.Clock
		debounce  time.Duration
		logger    *log.Logger
		writer    OutputWriter

		queue Queue[project.Project]

		mu      sync.Mutex
		watches map[project.Project]*watchEntry

		flightMu sync.Mutex
		inFlight map[project.Project]*flight
		passes   sync.WaitGroup
	}

	watchEntry struct {
		handle    watch.Handle
		root      string
		debouncer *watch.Debouncer
	}

	flight struct {
		rerun bool
	}
)

// NewScheduler creates a Scheduler. No watches exist until Reconcile runs.
func NewScheduler(opts Options) (*Scheduler, error) {
	if opts.Projects == nil {
		return nil, ErrNoProjectSource
	}

	s := &Scheduler{
		projects:  opts.Projects,
		watcher:   opts.Watcher,
		observers: opts.Observers,
		clock:     opts.Clock,
		debounce:  opts.Debounce,
		logger:    opts.Logger,
		writer:    opts.Writer,
		watches:   make(map[project.Project]*watchEntry),
		inFlight:  make(map[project.Project]*flight),
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "regen"})
	}
	if s.watcher == nil {
		s.watcher = watch.New(watch.WithLogger(s.logger))
	}
	if s.observers == nil {
		s.observers = LogObserverFactory(s.logger)
	}
	if s.clock == nil {
		s.clock = watch.RealClock{}
	}
	if s.debounce <= 0 {
		s.debounce = watch.DefaultDebounce
	}
	if s.writer == nil {
		s.writer = AtomicWriter{}
	}
	return s, nil
}

// Enqueue requests a regeneration pass for p on the next Drain.
func (s *Scheduler) Enqueue(p project.Project) {
	s.queue.Enqueue(p)
}

// Pending returns the number of queued requests.
func (s *Scheduler) Pending() int {
	return s.queue.Len()
}

// Reconcile ensures every gamemode project has a watch on its root directory.
// A newly watched project also gets an initial regeneration request. A
// watched project whose root moved has its watch re-pointed in place. A watch
// whose handle has stopped is replaced. Watch failures are logged and retried
// on the next call.
func (s *Scheduler) Reconcile() {
	for _, p := range s.projects.GetAllProjects() {
		if !p.PackageType().IsGame() {
			continue
		}
		root := p.RootPath()

		s.mu.Lock()
		entry, ok := s.watches[p]
		switch {
		case ok && stopped(entry.handle):
			delete(s.watches, p)
			s.mu.Unlock()
			s.logger.Warn("project watch stopped, recreating", "project", p.Title(), "path", entry.root)
			if err := entry.handle.Close(); err != nil {
				s.logger.Warn("failed to close stopped watch", "path", entry.root, "error", err)
			}
		case ok:
			if entry.root != root {
				if err := entry.handle.SetPath(root); err != nil {
					s.logger.Warn("failed to move project watch", "project", p.Title(), "path", root, "error", err)
				} else {
					s.logger.Debug("project watch moved", "project", p.Title(), "from", entry.root, "to", root)
					entry.root = root
				}
			}
			s.mu.Unlock()
			continue
		default:
			s.mu.Unlock()
		}

		entry, err := s.watch(p, root)
		if err != nil {
			s.logger.Warn("failed to watch project", "project", p.Title(), "path", root, "error", err)
			continue
		}

		// The project set may have changed while the watch was being created.
		s.mu.Lock()
		_, taken := s.watches[p]
		if taken || !s.isCurrent(p) {
			s.mu.Unlock()
			if err := entry.handle.Close(); err != nil {
				s.logger.Warn("failed to close unused watch", "path", root, "error", err)
			}
			continue
		}
		s.watches[p] = entry
		s.mu.Unlock()

		s.logger.Debug("watching project", "project", p.Title(), "path", root)
		s.queue.Enqueue(p)
	}
}

// isCurrent reports whether p is still a known gamemode project.
func (s *Scheduler) isCurrent(p project.Project) bool {
	for _, q := range s.projects.GetAllProjects() {
		if q == p {
			return q.PackageType().IsGame()
		}
	}
	return false
}

func stopped(h watch.Handle) bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}

// watch creates the debounced watch for p.
func (s *Scheduler) watch(p project.Project, root string) (*watchEntry, error) {
	debouncer := watch.NewDebouncer(s.clock, s.debounce)
	handle, err := s.watcher.Watch(root, AddonFilter, func(watch.Event) {
		if debouncer.Accept(s.clock.Now()) {
			s.queue.Enqueue(p)
		}
	})
	if err != nil {
		return nil, err
	}
	return &watchEntry{handle: handle, root: root, debouncer: debouncer}, nil
}

// CleanStaleWatches closes the watch of every project that is no longer a
// known gamemode project and returns how many were closed.
func (s *Scheduler) CleanStaleWatches() int {
	current := make(map[project.Project]struct{})
	for _, p := range s.projects.GetAllProjects() {
		if p.PackageType().IsGame() {
			current[p] = struct{}{}
		}
	}

	s.mu.Lock()
	var stale []*watchEntry
	for p, entry := range s.watches {
		if _, ok := current[p]; !ok {
			stale = append(stale, entry)
			delete(s.watches, p)
		}
	}
	s.mu.Unlock()

	for _, entry := range stale {
		if err := entry.handle.Close(); err != nil {
			s.logger.Warn("failed to close stale watch", "path", entry.root, "error", err)
		}
	}
	return len(stale)
}

// Watching reports the root currently watched for p.
func (s *Scheduler) Watching(p project.Project) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.watches[p]
	if !ok {
		return "", false
	}
	return entry.root, true
}

// Drain dequeues every request queued at the time of the call and starts a
// pass for each, returning the number of requests taken. It does not wait
// for the passes.
func (s *Scheduler) Drain() int {
	n := 0
	for {
		p, ok := s.queue.TryDequeue()
		if !ok {
			return n
		}
		n++
		s.start(p)
	}
}

// start runs a pass for p in a new goroutine unless one is already running,
// in which case that pass is asked to run again.
func (s *Scheduler) start(p project.Project) {
	s.flightMu.Lock()
	if f, ok := s.inFlight[p]; ok {
		f.rerun = true
		s.flightMu.Unlock()
		return
	}
	s.inFlight[p] = &flight{}
	s.passes.Add(1)
	s.flightMu.Unlock()

	go s.run(p)
}

func (s *Scheduler) run(p project.Project) {
	defer s.passes.Done()

	for {
		// Failures are reported to the observer; nothing to do here.
		_, _ = Pass(p, s.observers(p), s.writer)

		s.flightMu.Lock()
		f := s.inFlight[p]
		if !f.rerun {
			delete(s.inFlight, p)
			s.flightMu.Unlock()
			return
		}
		f.rerun = false
		s.flightMu.Unlock()
	}
}

// Wait blocks until every started pass has completed.
func (s *Scheduler) Wait() {
	s.passes.Wait()
}

// Close disposes every watch. Running passes are not interrupted.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	entries := make([]*watchEntry, 0, len(s.watches))
	for p, entry := range s.watches {
		entries = append(entries, entry)
		delete(s.watches, p)
	}
	s.mu.Unlock()

	var errs []error
	for _, entry := range entries {
		if err := entry.handle.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run reconciles and drains every tick until ctx is cancelled. Stale watches
// are cleaned on the same goroutine whenever the project set changes. On
// return all watches are closed and all started passes have completed. A
// non-positive tick uses DefaultTick.
func (s *Scheduler) Run(ctx context.Context, tick time.Duration) error {
	if tick <= 0 {
		tick = DefaultTick
	}

	changed := make(chan struct{}, 1)
	unsubscribe := s.projects.OnProjectsChanged(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer func() {
		unsubscribe()
		if err := s.Close(); err != nil {
			s.logger.Warn("failed to close watches", "error", err)
		}
		s.Wait()
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		s.Reconcile()
		s.Drain()

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			s.CleanStaleWatches()
		case <-ticker.C:
		}
	}
}
