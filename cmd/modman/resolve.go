// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modhost/modman/internal/issue"
	"github.com/modhost/modman/pkg/types"
)

func newResolveCommand(app *App, flags *rootFlags) *cobra.Command {
	var mod string

	resolveCmd := &cobra.Command{
		Use:   "resolve <path>",
		Short: "Resolve an asset path through the active package",
		Long: `Resolve an asset path the way the host would.

With --mod, the given package is activated for this invocation first, so its
files override the fallback root. Without --mod only the fallback root is
consulted. The resolved absolute path is printed on success.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Registry.Open(cmd.Context(), flags.openRequest())
			if err != nil {
				return err
			}
			reg := session.Registry

			if mod != "" {
				index, err := selectPackage(reg, mod)
				if err != nil {
					return err
				}
				if !reg.Toggle(index) {
					return &ExitError{
						Code: types.ExitBadPackage,
						Err: issue.NewErrorContext().
							WithOperation("activate package").
							WithResource(mod).
							WithIssue(issue.IncompatiblePackageId).
							Build(),
					}
				}
			}

			resolved, err := reg.Resolve(args[0])
			if err != nil {
				return classifyResolveError(err, args[0])
			}

			session.Logger.Debug("resolved", "path", args[0], "to", resolved)
			fmt.Fprintln(app.stdout, resolved)
			return nil
		},
	}

	resolveCmd.Flags().StringVarP(&mod, "mod", "m", "", "package (index or directory) to activate before resolving")
	return resolveCmd
}
