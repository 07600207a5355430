// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peter-r-g/inputactions/internal/config"
	"github.com/peter-r-g/inputactions/internal/issue"
)

func newConfigCommand(app *App, root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage inputactions configuration",
		Long: `Inspect and initialize the inputactions configuration.

The configuration is read from ` + "`config.cue`" + ` in the config directory
($XDG_CONFIG_HOME/inputactions on Linux), or from ./config.cue, or from the
file given with --config. INPUTACTIONS_* environment variables override file
values, e.g. INPUTACTIONS_WATCH_DEBOUNCE=250ms.`,
	}

	cmd.AddCommand(
		newConfigShowCommand(app, root),
		newConfigDumpCommand(app, root),
		newConfigPathCommand(app, root),
		newConfigInitCommand(app),
	)

	return cmd
}

func newConfigShowCommand(app *App, root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}
			path, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: root.configPath})
			if err != nil {
				return err
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render("Configuration"))
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("  (no config file, using defaults)"))
			} else {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("  file: "+path))
			}
			fmt.Fprintln(app.stdout)

			rows := [][2]string{
				{"search_paths", strings.Join(cfg.SearchPaths, ", ")},
				{"project_glob", cfg.ProjectGlob},
				{"watch.debounce", cfg.Watch.Debounce.String()},
				{"watch.tick", cfg.Watch.Tick.String()},
				{"watch.rescan", cfg.Watch.Rescan.String()},
				{"notice.success_delay", cfg.Notice.SuccessDelay.String()},
				{"notice.failure_delay", cfg.Notice.FailureDelay.String()},
				{"log.level", cfg.Log.Level.String()},
				{"log.format", cfg.Log.Format.String()},
				{"ui.board", fmt.Sprint(cfg.UI.Board)},
				{"ui.verbose", fmt.Sprint(cfg.UI.Verbose)},
			}
			for _, r := range rows {
				fmt.Fprintf(app.stdout, "  %s %s\n", KeyStyle.Render(fmt.Sprintf("%-21s", r[0])), r[1])
			}
			return nil
		},
	}
}

func newConfigDumpCommand(app *App, root *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context(), root)
			if err != nil {
				return err
			}
			out, err := config.Dump(cfg, config.DumpFormat(format))
			if err != nil {
				return err
			}
			_, err = app.stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(config.DumpFormatCUE), "output format (cue, toml)")

	return cmd
}

func newConfigPathCommand(app *App, root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Long: `Print the config file that would be read. When none exists, print the
path 'config init' would create.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			opts := config.LoadOptions{ConfigFilePath: root.configPath}
			path, err := config.ResolvePath(opts)
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintln(app.stdout, path)
				return nil
			}
			path, err = config.DefaultPath(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path+SubtitleStyle.Render(" (not created)"))
			return nil
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			path, err := config.Init(config.LoadOptions{}, force)
			if err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return issue.NewErrorContext().
						WithOperation("initialize config").
						WithResource(path).
						WithSuggestion("Pass --force to overwrite it").
						Wrap(err).
						BuildError()
				}
				return err
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("Created ")+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
