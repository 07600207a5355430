// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/peter-r-g/inputactions/internal/issue"
	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/regen"
)

// ErrNoMatchingProjects is returned when generate arguments match no
// gamemode project.
var ErrNoMatchingProjects = errors.New("no matching gamemode projects")

type (
	generateFlags struct {
		check bool
	}

	// passOutcome is the result of one generate pass.
	passOutcome struct {
		project project.Project
		result  regen.Result
		err     error
	}

	// checkWriter compares pass output against the file on disk without
	// writing anything.
	checkWriter struct{}

	checkFile struct {
		target string
	}
)

func newGenerateCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [project...]",
		Short: "Regenerate input actions once",
		Long: `Run one regeneration pass for every gamemode project, or for the projects
named by key (Org.Ident) or title. Passes run concurrently.

With --check nothing is written; the command fails if any generated file
is missing or out of date.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, app, root, flags, args)
		},
	}

	cmd.Flags().BoolVar(&flags.check, "check", false, "report stale files without writing")

	return cmd
}

func runGenerate(cmd *cobra.Command, app *App, root *rootFlags, flags *generateFlags, args []string) error {
	s, err := app.newSession(cmd.Context(), root)
	if err != nil {
		return err
	}

	targets := selectProjects(s.workspace.GetAllProjects(), args)
	if len(targets) == 0 {
		if len(args) > 0 {
			return issue.NewErrorContext().
				WithOperation("select projects").
				WithResource(strings.Join(args, ", ")).
				WithSuggestion("Run 'inputactions projects' to list discovered projects").
				Wrap(ErrNoMatchingProjects).
				BuildError()
		}
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No gamemode projects found."))
		return nil
	}

	var writer regen.OutputWriter
	if flags.check {
		writer = checkWriter{}
	}

	outcomes := make([]passOutcome, len(targets))
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range targets {
		g.Go(func() error {
			var obs regen.Observer
			if s.cfg.UI.Verbose {
				obs = regen.NewLogObserver(s.logger.WithPrefix("pass"), p)
			}
			res, err := regen.Pass(p, obs, writer)
			outcomes[i] = passOutcome{project: p, result: res, err: err}
			return nil
		})
	}
	_ = g.Wait() // Pass errors are collected in outcomes.

	failed := renderOutcomes(app, outcomes, flags.check)
	if failed > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// selectProjects returns the gamemode projects matching any of names by key
// or title, ignoring case. No names selects every gamemode project.
func selectProjects(all []project.Project, names []string) []project.Project {
	var out []project.Project
	for _, p := range all {
		if !p.PackageType().IsGame() {
			continue
		}
		if len(names) == 0 || matchesAny(p, names) {
			out = append(out, p)
		}
	}
	return out
}

func matchesAny(p project.Project, names []string) bool {
	key := projectKey(p)
	for _, n := range names {
		if strings.EqualFold(n, key) || strings.EqualFold(n, p.Title()) {
			return true
		}
	}
	return false
}

// projectKey returns the stable key of p, or its root path when p is not
// backed by an .addon file.
func projectKey(p project.Project) string {
	if a, ok := p.(*project.AddonProject); ok {
		return a.Key()
	}
	return p.RootPath()
}

// renderOutcomes prints one line per pass and returns how many failed. In
// check mode a changed result counts as a failure.
func renderOutcomes(app *App, outcomes []passOutcome, check bool) int {
	failed := 0
	for _, o := range outcomes {
		name := KeyStyle.Render(o.project.Title())
		switch {
		case o.err != nil:
			failed++
			kind := regen.Classify(o.err)
			fmt.Fprintf(app.stderr, "%s %s %s\n", ErrorStyle.Render("✗"), name, ErrorStyle.Render(kind.String()+": "+o.err.Error()))
			fmt.Fprintf(app.stderr, "  %s\n", SubtitleStyle.Render("Run 'inputactions explain "+kind.String()+"' for details."))
		case check && o.result.Changed:
			failed++
			fmt.Fprintf(app.stderr, "%s %s %s\n", WarningStyle.Render("!"), name, WarningStyle.Render("out of date: "+o.result.Path))
		case o.result.Changed:
			fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), name, SubtitleStyle.Render(fmt.Sprintf("%d actions → %s", o.result.Actions, o.result.Path)))
		default:
			fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), name, SubtitleStyle.Render("up to date"))
		}
	}
	return failed
}

// Open implements regen.OutputWriter.
func (checkWriter) Open(path string) (regen.OutputFile, error) {
	return checkFile{target: path}, nil
}

// Commit implements regen.OutputFile. It reports whether writing data would
// change the target.
func (f checkFile) Commit(data []byte) (bool, error) {
	existing, err := os.ReadFile(f.target)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, &regen.OutputError{Path: f.target, Op: "read", Err: err}
	}
	return !bytes.Equal(existing, data), nil
}

// Abort implements regen.OutputFile.
func (checkFile) Abort() error { return nil }
