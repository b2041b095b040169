// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modhost/modman/pkg/modpkg"
	"github.com/modhost/modman/pkg/semver"
	"github.com/modhost/modman/pkg/types"
)

const (
	formatText = "text"
	formatTOML = "toml"
	formatYAML = "yaml"

	sortIndex   = "index"
	sortName    = "name"
	sortVersion = "version"
)

type (
	// packageRecord is the machine-readable form of a registry entry.
	packageRecord struct {
		Index       int    `toml:"index" yaml:"index"`
		ID          string `toml:"id" yaml:"id"`
		Dir         string `toml:"dir" yaml:"dir"`
		Name        string `toml:"name" yaml:"name"`
		Description string `toml:"description,omitempty" yaml:"description,omitempty"`
		Author      string `toml:"author,omitempty" yaml:"author,omitempty"`
		Version     string `toml:"version,omitempty" yaml:"version,omitempty"`
		Supported   string `toml:"supported,omitempty" yaml:"supported,omitempty"`
		Compatible  bool   `toml:"compatible" yaml:"compatible"`
	}

	packageListing struct {
		ModsRoot    string          `toml:"mods_root" yaml:"mods_root"`
		HostVersion string          `toml:"host_version" yaml:"host_version"`
		Packages    []packageRecord `toml:"packages" yaml:"packages"`
	}

	listOptions struct {
		compatible   bool
		incompatible bool
		format       string
		sortBy       string
	}
)

func newListCommand(app *App, flags *rootFlags) *cobra.Command {
	opts := &listOptions{}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered mod packages",
		Long: `List discovered mod packages in discovery order.

Each package is shown with its index, directory, name, version and whether it
is compatible with the host version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch opts.format {
			case formatText, formatTOML, formatYAML:
			default:
				return &ExitError{
					Code: types.ExitUsage,
					Err:  fmt.Errorf("unknown format %q (valid: text, toml, yaml)", opts.format),
				}
			}

			switch opts.sortBy {
			case sortIndex, sortName, sortVersion:
			default:
				return &ExitError{
					Code: types.ExitUsage,
					Err:  fmt.Errorf("unknown sort key %q (valid: index, name, version)", opts.sortBy),
				}
			}

			session, err := app.Registry.Open(cmd.Context(), flags.openRequest())
			if err != nil {
				return err
			}

			entries := sortEntries(filterEntries(session.Registry.Entries(), opts), opts.sortBy)
			listing := packageListing{
				ModsRoot:    session.Registry.ModsRoot(),
				HostVersion: string(session.Config.HostVersion),
				Packages:    toRecords(entries),
			}
			return writeListing(app.stdout, opts.format, listing, entries)
		},
	}

	listCmd.Flags().BoolVar(&opts.compatible, "compatible", false, "show only compatible packages")
	listCmd.Flags().BoolVar(&opts.incompatible, "incompatible", false, "show only incompatible packages")
	listCmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, toml or yaml")
	listCmd.Flags().StringVar(&opts.sortBy, "sort", sortIndex, "sort order: index, name or version (newest first)")
	listCmd.MarkFlagsMutuallyExclusive("compatible", "incompatible")

	return listCmd
}

func filterEntries(entries []modpkg.Entry, opts *listOptions) []modpkg.Entry {
	if !opts.compatible && !opts.incompatible {
		return entries
	}
	out := make([]modpkg.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Compatible == opts.compatible {
			out = append(out, e)
		}
	}
	return out
}

// sortEntries orders entries in place. Entries without a valid Version sort
// last by version; ties keep discovery order.
func sortEntries(entries []modpkg.Entry, by string) []modpkg.Entry {
	switch by {
	case sortName:
		slices.SortStableFunc(entries, func(a, b modpkg.Entry) int {
			return strings.Compare(strings.ToLower(a.Manifest.Name), strings.ToLower(b.Manifest.Name))
		})
	case sortVersion:
		slices.SortStableFunc(entries, func(a, b modpkg.Entry) int {
			return semver.Compare(b.Manifest.Version, a.Manifest.Version)
		})
	}
	return entries
}

func toRecords(entries []modpkg.Entry) []packageRecord {
	records := make([]packageRecord, len(entries))
	for i, e := range entries {
		records[i] = packageRecord{
			Index:       e.Index,
			ID:          e.ID.String(),
			Dir:         e.Dir,
			Name:        e.Manifest.Name,
			Description: e.Manifest.Description,
			Author:      e.Manifest.Author,
			Version:     e.Manifest.Version,
			Supported:   e.Manifest.Supported,
			Compatible:  e.Compatible,
		}
	}
	return records
}

func writeListing(w io.Writer, format string, listing packageListing, entries []modpkg.Entry) error {
	switch format {
	case formatTOML:
		data, err := toml.Marshal(listing)
		if err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		_, err = w.Write(data)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(listing); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		renderTextListing(w, listing, entries)
		return nil
	}
}

func renderTextListing(w io.Writer, listing packageListing, entries []modpkg.Entry) {
	fmt.Fprintln(w, TitleStyle.Render("Mod packages")+" "+SubtitleStyle.Render(fmt.Sprintf("(%s, host %s)", listing.ModsRoot, listing.HostVersion)))
	fmt.Fprintln(w)

	if len(entries) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("  (no packages found)"))
		return
	}

	for _, e := range entries {
		status := SuccessStyle.Render("✓ compatible")
		if !e.Compatible {
			status = ErrorStyle.Render("✗ incompatible")
		}

		line := fmt.Sprintf("%s  %s  %s", indexStyle.Render(fmt.Sprint(e.Index)), CmdStyle.Render(e.Dir), displayName(e.Manifest))
		if e.Manifest.Version != "" {
			line += SubtitleStyle.Render(" v" + strings.TrimPrefix(e.Manifest.Version, "v"))
		}
		fmt.Fprintf(w, "%s  %s\n", line, status)

		if summary := types.DescriptionText(e.Manifest.Description).Summary(72); summary != "" {
			fmt.Fprintf(w, "        %s\n", SubtitleStyle.Render(summary))
		}
	}
}

// displayName falls back to a placeholder for manifests without a name.
func displayName(m modpkg.PackageManifest) string {
	if strings.TrimSpace(m.Name) == "" {
		return SubtitleStyle.Render("(unnamed)")
	}
	return m.Name
}
