// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/modhost/modman/pkg/modpkg"
)

// entrySource exposes registry entries to the fuzzy matcher. Each entry is
// matched on its directory, name and author.
type entrySource []modpkg.Entry

func (s entrySource) String(i int) string {
	e := s[i]
	return strings.Join([]string{e.Dir, e.Manifest.Name, e.Manifest.Author}, " ")
}

func (s entrySource) Len() int { return len(s) }

func newSearchCommand(app *App, flags *rootFlags) *cobra.Command {
	var limit int

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search packages by directory, name or author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.Registry.Open(cmd.Context(), flags.openRequest())
			if err != nil {
				return err
			}

			matches := searchEntries(session.Registry.Entries(), args[0])
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			renderMatches(app.stdout, args[0], matches)
			return nil
		},
	}

	searchCmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results (0 for all)")
	return searchCmd
}

// searchEntries ranks entries against query, best match first.
func searchEntries(entries []modpkg.Entry, query string) []modpkg.Entry {
	source := entrySource(entries)
	results := fuzzy.FindFrom(query, source)

	out := make([]modpkg.Entry, len(results))
	for i, r := range results {
		out[i] = source[r.Index]
	}
	return out
}

func renderMatches(w io.Writer, query string, matches []modpkg.Entry) {
	if len(matches) == 0 {
		fmt.Fprintf(w, "%s %q\n", SubtitleStyle.Render("No packages match"), query)
		return
	}
	for _, e := range matches {
		marker := " "
		if !e.Compatible {
			marker = ErrorStyle.Render("✗")
		}
		fmt.Fprintf(w, "%s %s  %s  %s\n", marker, indexStyle.Render(fmt.Sprint(e.Index)), CmdStyle.Render(e.Dir), displayName(e.Manifest))
	}
}
