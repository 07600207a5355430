// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peter-r-g/inputactions/internal/issue"
)

// explainStyle is the glamour style used for issue guidance.
const explainStyle = "auto"

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [issue]",
		Short: "Explain a failure kind and how to fix it",
		Long: `Show guidance for a failure reported by watch or generate, for example
NoInputSettings or ParseActionsFailed. Without an argument, list every
known issue.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return issue.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Known issues:"))
				for _, i := range issue.Values() {
					fmt.Fprintf(app.stdout, "  %s\n", KeyStyle.Render(i.Name()))
				}
				return nil
			}

			i, ok := issue.Lookup(args[0])
			if !ok {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'inputactions explain' to list known issues").
					Wrap(fmt.Errorf("unknown issue %q", args[0])).
					BuildError()
			}

			out, err := i.Render(explainStyle)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}
}
