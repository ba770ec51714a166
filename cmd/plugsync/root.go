// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for plugsync.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "plugsync",
		Short: "Sync npm plugin declarations into your settings",
		Long: TitleStyle.Render("plugsync") + SubtitleStyle.Render(" - Sync npm plugin declarations into your settings") + `

plugsync scans a project's direct npm dependencies for plugin
declaration files and reconciles the plugins it finds into the
settings document, without disturbing anything you set by hand.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install a dependency that ships a plugin declaration
  2. Run: plugsync sync
  3. Inspect the result with: plugsync status

` + SubtitleStyle.Render("Examples:") + `
  plugsync sync             Sync the current directory's project
  plugsync sync ~/work/app  Sync a specific project directory
  plugsync sync --dry-run   Show what would change without writing
  plugsync status           Show every discovered plugin's state
  plugsync config show      Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootLogging)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/plugsync/config.json)")

	app := NewApp(Dependencies{})
	rootCmd.AddCommand(newSyncCommand(app))
	rootCmd.AddCommand(newStatusCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// fang overrides rootCmd.Version, so the version goes through
	// fang.WithVersion instead.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootLogging raises the log level when --verbose is set.
func initRootLogging() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}
