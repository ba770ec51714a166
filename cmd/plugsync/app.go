// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"plugsync-cli/internal/cache"
	"plugsync-cli/internal/config"
	"plugsync-cli/internal/npm"
	"plugsync-cli/internal/settings"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and delegate business logic through its service interfaces.
	App struct {
		Config    ConfigProvider
		Providers ProviderService
		Settings  SettingsService
		stdout    io.Writer
		stderr    io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests can
	// supply mock implementations to isolate specific service behavior.
	Dependencies struct {
		Config    ConfigProvider
		Providers ProviderService
		Settings  SettingsService
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ProviderService discovers plugin providers among a project's direct
	// dependencies, normally through the scan cache.
	ProviderService interface {
		Providers(projectDir string, noCache bool) ([]npm.Provider, error)
		Path(projectDir string) string
	}

	// SettingsService reads and reconciles the settings document.
	SettingsService interface {
		Read(path string) (settings.Document, error)
		Update(path string, providers []npm.Provider) (settings.Changes, error)
	}
)

// NewApp builds an App, filling nil dependencies with production defaults.
// The provider service is built from the loaded configuration's declaration
// and cache filenames, so construction happens lazily per command via
// providerService when the dependency is not injected.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		Providers: deps.Providers,
		Settings:  deps.Settings,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Settings == nil {
		app.Settings = settings.NewStore(log.Default())
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// providerService returns the injected ProviderService, or builds the
// production scanner+cache pipeline from cfg.
func (a *App) providerService(cfg *config.Config) ProviderService {
	if a.Providers != nil {
		return a.Providers
	}
	logger := log.Default()
	scanner := npm.NewScanner(cfg.Scan.DeclarationFile, logger)
	return cache.NewManager(scanner, cfg.Scan.CacheFile, nil, logger)
}

// loadConfig loads configuration honoring the persistent --config flag.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}
