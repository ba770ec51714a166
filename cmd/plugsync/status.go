// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"plugsync-cli/internal/config"
	"plugsync-cli/internal/settings"
	"plugsync-cli/pkg/types"

	"github.com/spf13/cobra"
)

// newStatusCommand creates the `plugsync status` command.
func newStatusCommand(app *App) *cobra.Command {
	var (
		noCache      bool
		settingsPath string
	)

	statusCmd := &cobra.Command{
		Use:   "status [project-dir]",
		Short: "Show the state of every discovered plugin",
		Long: `Show every plugin declared by the project's direct npm dependencies
and whether it is currently enabled, disabled, or not yet synced.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := resolveProjectDir(args)
			if err != nil {
				return err
			}

			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			if settingsPath != "" {
				cfg.SettingsPath = settingsPath
			}
			target, err := config.ResolveSettingsPath(cfg)
			if err != nil {
				return err
			}

			providers, err := app.providerService(cfg).Providers(projectDir, noCache)
			if err != nil {
				renderFailure(app.stderr, err, verbose)
				return &ExitError{Code: types.ExitCode(1), Err: err}
			}
			doc, err := app.Settings.Read(target)
			if err != nil {
				renderFailure(app.stderr, err, verbose)
				return &ExitError{Code: types.ExitCode(1), Err: err}
			}

			renderStatuses(app, settings.PluginStates(providers, doc))
			return nil
		},
	}

	statusCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the scan cache and re-scan dependencies")
	statusCmd.Flags().StringVar(&settingsPath, "settings", "", "settings file path (default is $HOME/.claude/settings.json)")

	return statusCmd
}

// renderStatuses prints one aligned row per discovered plugin.
func renderStatuses(app *App, statuses []settings.PluginStatus) {
	if len(statuses) == 0 {
		fmt.Fprintln(app.stdout, SubtitleStyle.Render("No plugins declared by this project's dependencies."))
		return
	}

	nameWidth, marketWidth := len("PLUGIN"), len("MARKETPLACE")
	for _, s := range statuses {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
		if len(s.Marketplace) > marketWidth {
			marketWidth = len(s.Marketplace)
		}
	}

	fmt.Fprintf(app.stdout, "%-*s  %-*s  %-13s  %s\n",
		nameWidth, "PLUGIN", marketWidth, "MARKETPLACE", "STATE", "VERSION")
	for _, s := range statuses {
		fmt.Fprintf(app.stdout, "%-*s  %-*s  %s  %s\n",
			nameWidth, s.Name, marketWidth, s.Marketplace, styleState(s.State), s.Version)
	}
}

// styleState colors a state. Padding happens before styling so the ANSI
// escape bytes never skew column alignment.
func styleState(state settings.State) string {
	padded := fmt.Sprintf("%-13s", string(state))
	switch state {
	case settings.StateEnabled:
		return SuccessStyle.Render(padded)
	case settings.StateDisabled:
		return WarningStyle.Render(padded)
	default:
		return SubtitleStyle.Render(padded)
	}
}
