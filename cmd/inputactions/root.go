// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for inputactions.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/peter-r-g/inputactions/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath  string
	searchPaths []string
	verbose     bool
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "inputactions",
		Short: "Generate C# input action accessors from addon project settings",
		Long: TitleStyle.Render("inputactions") + SubtitleStyle.Render(" - keeps InputActions.generated.cs in sync with your .addon files") + `

inputactions watches gamemode projects and regenerates
<code>/Generated/InputActions.generated.cs whenever a project's
InputSettings change.

` + SubtitleStyle.Render("Examples:") + `
  inputactions watch                  Watch projects in the current directory
  inputactions watch --board          Watch with a live status board
  inputactions generate               Regenerate every gamemode project once
  inputactions projects sandbox       Find projects matching "sandbox"
  inputactions explain NoInputSettings`,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/inputactions/config.cue)")
	rootCmd.PersistentFlags().StringSliceVarP(&flags.searchPaths, "path", "p", nil, "directory to search for projects (repeatable, overrides search_paths)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newWatchCommand(app, flags),
		newGenerateCommand(app, flags),
		newProjectsCommand(app, flags),
		newExplainCommand(app),
		newConfigCommand(app, flags),
	)

	return rootCmd, flags
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	// go install records the module version in the build info.
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the CLI and exits with its status. It is called by main.main().
func Execute() {
	os.Exit(run(context.Background(), Dependencies{}))
}

// run executes the command tree and returns the process exit code.
func run(ctx context.Context, deps Dependencies) int {
	app := NewApp(deps)
	rootCmd, flags := newRootCommand(app)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			renderError(w, err, flags.verbose)
		}),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// renderError writes err for the user. An ExitError without a cause has
// already been reported by its command.
func renderError(w io.Writer, err error, verbose bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
