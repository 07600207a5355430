// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/peter-r-g/inputactions/internal/config"
	"github.com/peter-r-g/inputactions/internal/issue"
	"github.com/peter-r-g/inputactions/internal/project"
)

type (
	// App wires CLI services and shared dependencies. Every command handler
	// receives an App and opens a session from it.
	App struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiagnosticRenderer renders discovery diagnostics.
	DiagnosticRenderer interface {
		Render(diags []project.Diagnostic, w io.Writer)
	}

	defaultDiagnosticRenderer struct{}

	// session is the per-invocation state shared by the commands: the
	// effective configuration, the logger built from it and the project
	// workspace.
	session struct {
		cfg       *config.Config
		logger    *log.Logger
		workspace *project.Workspace
		// diags are the diagnostics of the initial scan.
		diags []project.Diagnostic
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:      deps.Config,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Diagnostics == nil {
		app.Diagnostics = defaultDiagnosticRenderer{}
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig loads the configuration and applies the root flag overrides.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	if len(flags.searchPaths) > 0 {
		cfg.SearchPaths = flags.searchPaths
	}
	if len(cfg.SearchPaths) == 0 {
		cfg.SearchPaths = []string{"."}
	}
	if flags.verbose {
		cfg.UI.Verbose = true
		cfg.Log.Level = config.LogLevelDebug
	}
	return cfg, nil
}

// newSession loads the configuration, installs the logger as the process
// default and scans the search paths once. Scan diagnostics are rendered to
// stderr.
func (a *App) newSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	logger := newLogger(a.stderr, cfg.Log)
	slog.SetDefault(slog.New(logger))

	ws, err := project.NewWorkspace(cfg.SearchPaths, cfg.ProjectGlob)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open workspace").
			WithResource(fmt.Sprint(cfg.SearchPaths)).
			WithSuggestion("Check search_paths and project_glob in your config").
			WithIssue(issue.ProjectLoadFailedId).
			Wrap(err).
			BuildError()
	}

	diags, _ := ws.Refresh()
	a.Diagnostics.Render(diags, a.stderr)

	return &session{cfg: cfg, logger: logger, workspace: ws, diags: diags}, nil
}

// newLogger builds the process logger from the log settings. Invalid values
// have already been rejected by config validation.
func newLogger(w io.Writer, cfg config.LogConfig) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true})
	if level, err := log.ParseLevel(cfg.Level.String()); err == nil {
		logger.SetLevel(level)
	}
	switch cfg.Format {
	case config.LogFormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case config.LogFormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}

// Render writes one line per diagnostic.
func (defaultDiagnosticRenderer) Render(diags []project.Diagnostic, w io.Writer) {
	for _, d := range diags {
		label := WarningStyle.Render(string(d.Severity))
		if d.Severity == project.SeverityError {
			label = ErrorStyle.Render(string(d.Severity))
		}
		line := fmt.Sprintf("%s %s", label, d.Message)
		if d.Path != "" {
			line += SubtitleStyle.Render(" (" + d.Path + ")")
		}
		fmt.Fprintln(w, line)
		if hint := diagnosticHint(d.Code); hint != "" {
			fmt.Fprintln(w, "  "+SubtitleStyle.Render(hint))
		}
	}
}

// diagnosticHint points at the explain entry for a diagnostic code.
func diagnosticHint(code string) string {
	switch code {
	case project.CodeAddonParseFailed, project.CodeSearchPathInvalid:
		return "Run 'inputactions explain " + issue.Get(issue.ProjectLoadFailedId).Name() + "' for details."
	case project.CodeProjectCollision:
		return "Run 'inputactions explain " + issue.Get(issue.ProjectCollisionId).Name() + "' for details."
	}
	return ""
}
