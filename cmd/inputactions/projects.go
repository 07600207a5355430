// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/peter-r-g/inputactions/internal/project"
	"github.com/peter-r-g/inputactions/internal/regen"
)

type (
	projectsFlags struct {
		all bool
	}

	// projectSource exposes projects to fuzzy matching by "key title".
	projectSource []project.Project
)

func newProjectsCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &projectsFlags{}

	cmd := &cobra.Command{
		Use:   "projects [query]",
		Short: "List discovered projects",
		Long: `List the gamemode projects found under the search paths together with the
file each one generates. A query fuzzy-matches project keys and titles and
orders the result by match quality.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), root)
			if err != nil {
				return err
			}

			var candidates []project.Project
			for _, p := range s.workspace.GetAllProjects() {
				if flags.all || p.PackageType().IsGame() {
					candidates = append(candidates, p)
				}
			}
			if len(args) == 1 {
				candidates = filterProjects(candidates, args[0])
			}

			if len(candidates) == 0 {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("No projects found."))
				return nil
			}
			for _, p := range candidates {
				renderProject(app, p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "include non-gamemode projects")

	return cmd
}

// filterProjects returns the projects fuzzy-matching query, best match first.
func filterProjects(projects []project.Project, query string) []project.Project {
	matches := fuzzy.FindFrom(query, projectSource(projects))
	out := make([]project.Project, 0, len(matches))
	for _, m := range matches {
		out = append(out, projects[m.Index])
	}
	return out
}

func renderProject(app *App, p project.Project) {
	fmt.Fprintf(app.stdout, "%s %s %s\n",
		KeyStyle.Render(projectKey(p)),
		TitleStyle.Render(p.Title()),
		SubtitleStyle.Render("["+p.PackageType().String()+"]"))
	if p.PackageType().IsGame() {
		out := regen.OutputPath(p)
		if rel, err := filepath.Rel(p.RootPath(), out); err == nil {
			out = rel
		}
		fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("output:"), out)
	}
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("root:"), p.RootPath())
}

// String implements fuzzy.Source.
func (s projectSource) String(i int) string {
	return projectKey(s[i]) + " " + s[i].Title()
}

// Len implements fuzzy.Source.
func (s projectSource) Len() int { return len(s) }
