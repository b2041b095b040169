// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modhost/modman/internal/config"
)

func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modman configuration",
		Long: `Manage modman configuration.

Configuration is read from config.cue in the user config directory, then
overridden by MODMAN_* environment variables and finally by global flags.`,
	}

	configCmd.AddCommand(
		newConfigShowCommand(app, flags),
		newConfigInitCommand(app),
		newConfigPathCommand(app, flags),
	)
	return configCmd
}

func newConfigShowCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), app.Config, flags.openRequest())
			if err != nil {
				return err
			}

			source, err := config.Locate(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			if source == "" {
				source = "(defaults)"
			}

			fmt.Fprintln(app.stdout, SubtitleStyle.Render("// source: "+source))
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	var force bool

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			existing, err := config.FilePath()
			if err != nil {
				return err
			}
			existed := fileExists(existing)

			path, err := config.CreateDefaultConfig(force)
			if err != nil {
				return err
			}

			if existed && !force {
				fmt.Fprintf(app.stdout, "%s %s (use --force to overwrite)\n", WarningStyle.Render("Config already exists:"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("Created config:"), path)
			return nil
		},
	}

	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return initCmd
}

func newConfigPathCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Long: `Print the config file modman reads. When no file exists yet, the
path 'modman config init' would create is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path, err := config.Locate(config.LoadOptions{ConfigFilePath: flags.configPath})
			if err != nil {
				return err
			}
			if path == "" {
				if path, err = config.FilePath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
