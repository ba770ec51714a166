// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"plugsync-cli/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `plugsync config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage plugsync configuration",
		Long: `Manage plugsync configuration.

Configuration is stored in:
  - Linux: ~/.config/plugsync/config.json
  - macOS: ~/Library/Application Support/plugsync/config.json
  - Windows: %APPDATA%\plugsync\config.json

Every value can also be set through PLUGSYNC_* environment variables,
e.g. PLUGSYNC_SCAN_DECLARATION_FILE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return err
	}
	settingsPath, err := config.ResolveSettingsPath(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("plugsync configuration"))
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("settings_path:"), settingsPath)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("scan.declaration_file:"), cfg.Scan.DeclarationFile)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("scan.cache_file:"), cfg.Scan.CacheFile)
	fmt.Fprintf(app.stdout, "  %s %t\n", SubtitleStyle.Render("ui.verbose:"), cfg.UI.Verbose)
	return nil
}
