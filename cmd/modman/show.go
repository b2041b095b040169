// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/modhost/modman/pkg/modpkg"
	"github.com/modhost/modman/pkg/platform"
	"github.com/modhost/modman/pkg/semver"
)

func newShowCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index|dir>",
		Short: "Show a package's manifest and status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Registry.Open(cmd.Context(), flags.openRequest())
			if err != nil {
				return err
			}

			index, err := selectPackage(session.Registry, args[0])
			if err != nil {
				return err
			}

			renderPackage(app.stdout, session.Registry.Entries()[index])
			return nil
		},
	}
}

func renderPackage(w io.Writer, e modpkg.Entry) {
	m := e.Manifest
	field := func(key, value string) {
		if value == "" {
			value = SubtitleStyle.Render("(not set)")
		}
		fmt.Fprintf(w, "%s %s\n", CmdStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
	}

	fmt.Fprintln(w, TitleStyle.Render(displayName(m)))
	fmt.Fprintln(w)
	field("Index", fmt.Sprint(e.Index))
	field("Directory", e.Dir)
	field("ID", e.ID.String())
	field("Author", m.Author)
	field("Version", m.Version)
	field("Supported", m.Supported)
	switch {
	case e.Active:
		field("Status", activeMarkerStyle.Render("active"))
	case e.Compatible:
		field("Status", SuccessStyle.Render("compatible"))
	default:
		field("Status", ErrorStyle.Render("incompatible"))
	}

	if m.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, m.Description)
	}

	var warnings []error
	if valid, errs := m.IsValid(); !valid {
		warnings = append(warnings, errs...)
	}
	if m.Supported != "" && !semver.IsValidRange(m.Supported) {
		warnings = append(warnings, fmt.Errorf("supported range %q is not understood; the package is treated as incompatible", m.Supported))
	}
	if err := platform.CheckPortableName(e.Dir); err != nil {
		warnings = append(warnings, err)
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		for _, err := range warnings {
			fmt.Fprintln(w, WarningStyle.Render("Warning: ")+err.Error())
		}
	}
}
