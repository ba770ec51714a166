// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"plugsync-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Scan.DeclarationFile != "claude-plugin.json" {
		t.Errorf("DeclarationFile = %q, want claude-plugin.json", cfg.Scan.DeclarationFile)
	}
	if cfg.Scan.CacheFile != ".plugsync-cache.json" {
		t.Errorf("CacheFile = %q, want .plugsync-cache.json", cfg.Scan.CacheFile)
	}
	if cfg.SettingsPath != "" {
		t.Errorf("SettingsPath = %q, want empty (resolved lazily)", cfg.SettingsPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	cfgDir := t.TempDir()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Scan.DeclarationFile != "claude-plugin.json" {
		t.Errorf("DeclarationFile = %q, want default", cfg.Scan.DeclarationFile)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.json"), `{
		"settings_path": "/tmp/custom-settings.json",
		"scan": {"declaration_file": "my-plugin.json"}
	}`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.SettingsPath != "/tmp/custom-settings.json" {
		t.Errorf("SettingsPath = %q, want override", cfg.SettingsPath)
	}
	if cfg.Scan.DeclarationFile != "my-plugin.json" {
		t.Errorf("DeclarationFile = %q, want override", cfg.Scan.DeclarationFile)
	}
	// Unset keys keep their defaults.
	if cfg.Scan.CacheFile != ".plugsync-cache.json" {
		t.Errorf("CacheFile = %q, want default", cfg.Scan.CacheFile)
	}
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() succeeded for a missing explicit config file")
	}
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.json"), `{broken`)

	if _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: cfgDir}); err == nil {
		t.Fatal("Load() succeeded for malformed config")
	}
}

func TestLoad_InvalidScanFilename(t *testing.T) {
	cfgDir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(cfgDir, "config.json"), `{
		"scan": {"cache_file": "nested/cache.json"}
	}`)

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err == nil {
		t.Fatal("Load() accepted a cache filename containing a path separator")
	}
	if !errors.Is(err, ErrInvalidScanConfig) {
		t.Errorf("error = %v, want ErrInvalidScanConfig", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	cfgDir := t.TempDir()
	cleanup := testutil.MustSetenv(t, "PLUGSYNC_SETTINGS_PATH", "/env/settings.json")
	defer cleanup()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: cfgDir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.SettingsPath != "/env/settings.json" {
		t.Errorf("SettingsPath = %q, want env override", cfg.SettingsPath)
	}
}

func TestResolveSettingsPath(t *testing.T) {
	home := t.TempDir()
	cleanup := testutil.SetHomeDir(t, home)
	defer cleanup()

	got, err := ResolveSettingsPath(DefaultConfig())
	if err != nil {
		t.Fatalf("ResolveSettingsPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".claude", "settings.json")
	if got != want {
		t.Errorf("ResolveSettingsPath() = %q, want %q", got, want)
	}

	override := &Config{SettingsPath: "/explicit/settings.json"}
	got, err = ResolveSettingsPath(override)
	if err != nil {
		t.Fatalf("ResolveSettingsPath() returned error: %v", err)
	}
	if got != "/explicit/settings.json" {
		t.Errorf("ResolveSettingsPath() = %q, want explicit override", got)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if got != dir {
		t.Errorf("ConfigDir() = %q, want override %q", got, dir)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if fileExists(path) {
		t.Error("fileExists() = true for missing file")
	}
	testutil.MustWriteFile(t, path, "x")
	if !fileExists(path) {
		t.Error("fileExists() = false for existing file")
	}
	if fileExists(dir) {
		t.Error("fileExists() = true for a directory")
	}
	_ = os.Remove(path)
}
