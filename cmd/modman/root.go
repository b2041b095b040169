// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/modhost/modman/pkg/modpkg"
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
	configPath   string
	verbose      bool
	modsRoot     string
	fallbackRoot string
	hostVersion  string
}

func (f *rootFlags) openRequest() OpenRequest {
	return OpenRequest{
		ConfigPath:   f.configPath,
		ModsRoot:     f.modsRoot,
		FallbackRoot: f.fallbackRoot,
		HostVersion:  f.hostVersion,
		Verbose:      f.verbose,
	}
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "modman",
		Short: "Inspect and resolve game mod packages",
		Long: TitleStyle.Render("modman") + SubtitleStyle.Render(" - mod package registry for game hosts") + `

modman discovers mod packages under a mods root (one directory per package,
one .json manifest per directory), classifies them against the host version,
and resolves asset paths through the active package with a fallback to the
base assets.

` + SubtitleStyle.Render("Examples:") + `
  modman list                            List all packages
  modman list --compatible --format yaml  Compatible packages as YAML
  modman show hd-textures                Show one package
  modman search textures                 Fuzzy search by name or directory
  modman resolve textures/rock.png --mod hd-textures
  modman config show                     Show current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is <user config dir>/modman/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.modsRoot, "mods", "", "mods root directory (overrides config)")
	pf.StringVar(&flags.fallbackRoot, "fallback", "", "fallback asset directory (overrides config)")
	pf.StringVar(&flags.hostVersion, "host-version", "", "host version used for compatibility (overrides config)")

	rootCmd.AddCommand(
		newListCommand(app, flags),
		newShowCommand(app, flags),
		newSearchCommand(app, flags),
		newResolveCommand(app, flags),
		newConfigCommand(app, flags),
		newIssueCommand(app, flags),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the mapped exit code on failure.
// This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	rootCmd := NewRootCommand(app)

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		}),
	)
	if err != nil {
		os.Exit(int(exitCodeOf(err)))
	}
}

// selectPackage maps "<index>" or "<dir>" to a package index. Unlike the
// registry's clamping accessors it rejects out-of-range indices, since a
// typo on the command line should not silently pick another package.
func selectPackage(reg *modpkg.Registry, selector string) (int, error) {
	selector = strings.TrimSpace(selector)
	if i, err := strconv.Atoi(selector); err == nil {
		if i < 0 || i >= reg.Len() {
			return 0, packageNotFound(selector)
		}
		return i, nil
	}
	if i, ok := reg.IndexOf(selector); ok {
		return i, nil
	}
	return 0, packageNotFound(selector)
}
