// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/modhost/modman/internal/config"
	"github.com/modhost/modman/internal/issue"
	"github.com/modhost/modman/pkg/types"
)

func newIssueCommand(app *App, flags *rootFlags) *cobra.Command {
	var raw bool

	issueCmd := &cobra.Command{
		Use:   "issue [name]",
		Short: "Explain an error and how to fix it",
		Long: `Explain an error and how to fix it.

Errors name their issue, for example "run 'modman issue malformed-package'".
Without a name, all known issues are listed.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return issue.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(app.stdout, TitleStyle.Render("Known issues"))
				for _, name := range issue.Names() {
					fmt.Fprintln(app.stdout, "  "+CmdStyle.Render(name))
				}
				return nil
			}

			found := issue.Lookup(args[0])
			if found == nil {
				return &ExitError{
					Code: types.ExitUsage,
					Err:  fmt.Errorf("unknown issue %q (run 'modman issue' to list them)", args[0]),
				}
			}

			if raw {
				fmt.Fprintln(app.stdout, found.Markdown())
				return nil
			}

			out, err := found.Render(issueStyle(cmd, app, flags))
			if err != nil {
				return fmt.Errorf("failed to render issue: %w", err)
			}
			fmt.Fprint(app.stdout, out)
			return nil
		},
	}

	issueCmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of rendering it")
	return issueCmd
}

// issueStyle picks the glamour style from the configured color scheme.
// Output that is not the process stdout is rendered without colors. Config
// load failures fall back to "auto" so the issue explaining them still shows.
func issueStyle(cmd *cobra.Command, app *App, flags *rootFlags) string {
	if app.stdout != io.Writer(os.Stdout) {
		return "notty"
	}
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil || cfg.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(cfg.UI.ColorScheme)
}
