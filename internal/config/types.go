// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidScanConfig is the sentinel error wrapped by InvalidScanConfigError.
	ErrInvalidScanConfig = errors.New("invalid scan config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Config is the resolved tool configuration.
	Config struct {
		// SettingsPath overrides the settings document location.
		// Empty means $HOME/.claude/settings.json.
		SettingsPath string `mapstructure:"settings_path"`

		// Scan configures dependency scanning.
		Scan ScanConfig `mapstructure:"scan"`

		// UI configures output behavior.
		UI UIConfig `mapstructure:"ui"`
	}

	// ScanConfig configures the dependency scanner and its cache.
	ScanConfig struct {
		// DeclarationFile is the declaration filename probed inside each
		// dependency's package root.
		DeclarationFile string `mapstructure:"declaration_file"`

		// CacheFile is the scan cache filename, created at the project root.
		CacheFile string `mapstructure:"cache_file"`
	}

	// UIConfig configures output behavior.
	UIConfig struct {
		// Verbose enables verbose diagnostic output.
		Verbose bool `mapstructure:"verbose"`
	}

	// InvalidScanConfigError is returned when a scan filename is empty or
	// contains a path separator.
	InvalidScanConfigError struct {
		Field string
		Value string
	}

	// InvalidConfigError aggregates all validation failures for a Config.
	InvalidConfigError struct {
		Errors []error
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			DeclarationFile: "claude-plugin.json",
			CacheFile:       ".plugsync-cache.json",
		},
	}
}

// Error implements the error interface.
func (e *InvalidScanConfigError) Error() string {
	return fmt.Sprintf("invalid scan config: %s must be a bare filename (got %q)", e.Field, e.Value)
}

// Unwrap returns ErrInvalidScanConfig for errors.Is compatibility.
func (e *InvalidScanConfigError) Unwrap() error { return ErrInvalidScanConfig }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks constraints the schema cannot express: scan filenames must
// be bare names, never paths.
func (c *Config) Validate() error {
	var errs []error
	for field, value := range map[string]string{
		"scan.declaration_file": c.Scan.DeclarationFile,
		"scan.cache_file":       c.Scan.CacheFile,
	} {
		if value == "" || strings.ContainsAny(value, `/\`) {
			errs = append(errs, &InvalidScanConfigError{Field: field, Value: value})
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{Errors: errs}
	}
	return nil
}
