// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peter-r-g/inputactions/internal/issue"
	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/regen"
	"github.com/peter-r-g/inputactions/internal/tui"
	"github.com/peter-r-g/inputactions/internal/watch"
)

type (
	watchFlags struct {
		board bool
		once  bool
	}

	// failureCounter counts the passes that ended in StageErrored.
	failureCounter struct {
		failed atomic.Int64
	}

	failureObserver struct {
		counter *failureCounter
	}

	// diagnosticFilter remembers which diagnostics were already shown so a
	// broken .addon is reported once per distinct problem rather than on
	// every rescan.
	diagnosticFilter struct {
		seen map[string]struct{}
	}
)

func newWatchCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate input actions whenever a project changes",
		Long: `Watch every gamemode project under the search paths and regenerate its
InputActions.generated.cs whenever one of its .addon files changes.

Each newly discovered project is generated once immediately. The search paths
are rescanned periodically so projects added or removed while watching are
picked up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, app, root, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.board, "board", false, "show a live status board (default from ui.board)")
	cmd.Flags().BoolVar(&flags.once, "once", false, "generate every project once and exit")

	return cmd
}

func runWatch(cmd *cobra.Command, app *App, root *rootFlags, flags *watchFlags) error {
	ctx := cmd.Context()
	s, err := app.newSession(ctx, root)
	if err != nil {
		return err
	}

	useBoard := s.cfg.UI.Board
	if cmd.Flags().Changed("board") {
		useBoard = flags.board
	}
	if flags.once {
		useBoard = false
	}

	failures := &failureCounter{}
	observers := regen.Fanout(regen.LogObserverFactory(s.logger.WithPrefix("pass")), failures.factory())

	var board *tui.Board
	if useBoard {
		board = tui.NewBoard(tui.BoardOptions{
			SuccessDelay: s.cfg.Notice.SuccessDelay,
			FailureDelay: s.cfg.Notice.FailureDelay,
			Verbose:      s.cfg.UI.Verbose,
		}, tea.WithOutput(app.stdout))
		// The board owns the terminal; only problems are logged beside it.
		if s.logger.GetLevel() < log.WarnLevel {
			s.logger.SetLevel(log.WarnLevel)
		}
		observers = regen.Fanout(board.ObserverFactory(), failures.factory())
	}

	sched, err := regen.NewScheduler(regen.Options{
		Projects:  s.workspace,
		Watcher:   watch.New(watch.WithLogger(s.logger.WithPrefix("watch"))),
		Observers: observers,
		Debounce:  s.cfg.Watch.Debounce,
		Logger:    s.logger.WithPrefix("regen"),
	})
	if err != nil {
		return issue.WrapWithContext(err, "start scheduler", "")
	}

	if flags.once {
		return runOnce(app, sched, failures)
	}

	s.logger.Info("watching for changes", "paths", s.workspace.Roots(), "projects", countGames(s.workspace.GetAllProjects()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gctx, s.cfg.Watch.Tick)
	})
	g.Go(func() error {
		rescan(gctx, app, s, s.cfg.Watch.Rescan)
		return nil
	})
	if board != nil {
		g.Go(func() error {
			defer cancel()
			return board.Run()
		})
		g.Go(func() error {
			<-gctx.Done()
			board.Quit()
			return nil
		})
	}

	return g.Wait()
}

// runOnce reconciles, runs every initial pass and closes the watches.
func runOnce(app *App, sched *regen.Scheduler, failures *failureCounter) error {
	sched.Reconcile()
	n := sched.Drain()
	sched.Wait()
	if err := sched.Close(); err != nil {
		return issue.WrapWithContext(err, "close project watches", "")
	}

	failed := failures.failed.Load()
	if failed > 0 {
		fmt.Fprintln(app.stderr, ErrorStyle.Render(fmt.Sprintf("%d of %d projects failed", failed, n)))
		return &ExitError{Code: 1}
	}
	fmt.Fprintln(app.stdout, SuccessStyle.Render(fmt.Sprintf("%d projects generated", n)))
	return nil
}

// rescan refreshes the workspace every interval until ctx is done.
func rescan(ctx context.Context, app *App, s *session, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	filter := &diagnosticFilter{seen: make(map[string]struct{})}
	filter.fresh(s.diags)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		diags, changed := s.workspace.Refresh()
		app.Diagnostics.Render(filter.fresh(diags), app.stderr)
		if changed {
			s.logger.Info("project set changed", "projects", countGames(s.workspace.GetAllProjects()))
		}
	}
}

// fresh returns the diagnostics not shown before. A diagnostic that
// disappears and later returns is shown again.
func (f *diagnosticFilter) fresh(diags []project.Diagnostic) []project.Diagnostic {
	current := make(map[string]struct{}, len(diags))
	var out []project.Diagnostic
	for _, d := range diags {
		key := d.Code + "\x00" + d.Path + "\x00" + d.Message
		current[key] = struct{}{}
		if _, ok := f.seen[key]; !ok {
			out = append(out, d)
		}
	}
	f.seen = current
	return out
}

func (c *failureCounter) factory() regen.ObserverFactory {
	return func(project.Project) regen.Observer {
		return failureObserver{counter: c}
	}
}

// OnStage implements regen.Observer.
func (o failureObserver) OnStage(stage regen.Stage) {
	if stage == regen.StageErrored {
		o.counter.failed.Add(1)
	}
}

// OnError implements regen.Observer.
func (failureObserver) OnError(regen.ErrorKind, error) {}

func countGames(projects []project.Project) int {
	n := 0
	for _, p := range projects {
		if p.PackageType().IsGame() {
			n++
		}
	}
	return n
}
