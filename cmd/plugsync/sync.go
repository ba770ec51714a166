// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"plugsync-cli/internal/config"
	"plugsync-cli/internal/settings"
	"plugsync-cli/pkg/types"

	"github.com/spf13/cobra"
)

// newSyncCommand creates the `plugsync sync` command.
func newSyncCommand(app *App) *cobra.Command {
	var (
		noCache      bool
		settingsPath string
		dryRun       bool
	)

	syncCmd := &cobra.Command{
		Use:   "sync [project-dir]",
		Short: "Discover plugins and reconcile them into settings",
		Long: `Discover plugin declarations among the project's direct npm
dependencies and reconcile them into the settings document.

Newly discovered plugins are enabled. Plugins you disabled stay
disabled. Everything else in the settings file is left untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := resolveProjectDir(args)
			if err != nil {
				return err
			}
			return runSync(app, cmd, syncOptions{
				projectDir:   projectDir,
				noCache:      noCache,
				settingsPath: settingsPath,
				dryRun:       dryRun,
			})
		},
	}

	syncCmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the scan cache and re-scan dependencies")
	syncCmd.Flags().StringVar(&settingsPath, "settings", "", "settings file path (default is $HOME/.claude/settings.json)")
	syncCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would change without writing")

	return syncCmd
}

type syncOptions struct {
	projectDir   string
	noCache      bool
	settingsPath string
	dryRun       bool
}

func runSync(app *App, cmd *cobra.Command, opts syncOptions) error {
	cfg, err := app.loadConfig(cmd.Context())
	if err != nil {
		return err
	}
	if opts.settingsPath != "" {
		cfg.SettingsPath = opts.settingsPath
	}
	target, err := config.ResolveSettingsPath(cfg)
	if err != nil {
		return err
	}

	svc := app.providerService(cfg)
	providers, err := svc.Providers(opts.projectDir, opts.noCache)
	if err != nil {
		renderFailure(app.stderr, err, verbose)
		return &ExitError{Code: types.ExitCode(1), Err: err}
	}
	if verbose {
		fmt.Fprintln(app.stdout, VerboseStyle.Render("scan cache: "+svc.Path(opts.projectDir)))
	}

	if opts.dryRun {
		current, err := app.Settings.Read(target)
		if err != nil {
			renderFailure(app.stderr, err, verbose)
			return &ExitError{Code: types.ExitCode(1), Err: err}
		}
		_, changes := settings.Reconcile(current, providers)
		renderSyncReport(app, target, len(providers), changes, true)
		return nil
	}

	changes, err := app.Settings.Update(target, providers)
	if err != nil {
		renderFailure(app.stderr, err, verbose)
		return &ExitError{Code: types.ExitCode(1), Err: err}
	}
	renderSyncReport(app, target, len(providers), changes, false)
	return nil
}

// renderSyncReport prints the human-readable sync outcome.
func renderSyncReport(app *App, target string, providerCount int, changes settings.Changes, dryRun bool) {
	prefix := ""
	if dryRun {
		prefix = WarningStyle.Render("[dry-run] ")
	}

	fmt.Fprintf(app.stdout, "%sScanned %d plugin provider(s)\n", prefix, providerCount)
	for _, name := range changes.Added {
		fmt.Fprintf(app.stdout, "%s%s %s\n", prefix, SuccessStyle.Render("+ enabled"), KeyStyle.Render(name))
	}
	for _, name := range changes.Updated {
		fmt.Fprintf(app.stdout, "%s%s %s\n", prefix, SubtitleStyle.Render("~ updated"), KeyStyle.Render(name))
	}
	if !changes.Any() {
		fmt.Fprintf(app.stdout, "%sSettings already up to date: %s\n", prefix, KeyStyle.Render(target))
		return
	}
	if dryRun {
		fmt.Fprintf(app.stdout, "%sWould write %s\n", prefix, KeyStyle.Render(target))
		return
	}
	fmt.Fprintf(app.stdout, "Wrote %s\n", KeyStyle.Render(target))
}

// resolveProjectDir returns the positional project directory or the
// current working directory.
func resolveProjectDir(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	return dir, nil
}
