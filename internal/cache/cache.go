// SPDX-License-Identifier: MPL-2.0

// Package cache persists dependency scan results keyed by the mtimes of the
// project manifest and lockfile.
//
// The cache is derived, disposable state: it is rebuilt whenever it is
// missing, stale, corrupted, or explicitly bypassed, and it is never
// authoritative — the settings document is. Corruption is repaired silently
// by re-scanning; it is never surfaced as a user error.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"plugsync-cli/internal/issue"
	"plugsync-cli/internal/npm"
	"plugsync-cli/internal/testutil"

	"github.com/charmbracelet/log"
)

// DefaultFileName is the cache file created at the project root.
const DefaultFileName = ".plugsync-cache.json"

type (
	// Snapshot is the persisted cache payload. Mtimes are UnixNano; an
	// absent file records 0 and must still be absent for the snapshot to
	// stay valid.
	Snapshot struct {
		ScannedAt        time.Time      `json:"scannedAt"`
		PackageJSONMTime int64          `json:"packageJsonMTime"`
		PackageLockMTime int64          `json:"packageLockMTime"`
		Providers        []npm.Provider `json:"providers"`
	}

	// Manager wraps a Scanner with snapshot persistence.
	Manager struct {
		scanner  *npm.Scanner
		fileName string
		clock    testutil.Clock
		logger   *log.Logger
	}
)

// NewManager creates a Manager. Empty fileName falls back to
// DefaultFileName; a nil clock uses system time; a nil logger uses the
// package default.
func NewManager(scanner *npm.Scanner, fileName string, clock testutil.Clock, logger *log.Logger) *Manager {
	if fileName == "" {
		fileName = DefaultFileName
	}
	if clock == nil {
		clock = testutil.RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{scanner: scanner, fileName: fileName, clock: clock, logger: logger}
}

// Providers returns the project's providers, from the cache when its
// recorded mtimes still match the filesystem, otherwise from a fresh scan
// whose result replaces the cache. noCache forces the fresh scan.
func (m *Manager) Providers(projectDir string, noCache bool) ([]npm.Provider, error) {
	jsonMTime := mtime(filepath.Join(projectDir, npm.ManifestName))
	lockMTime := mtime(filepath.Join(projectDir, npm.LockName))

	if !noCache {
		if snap, ok := m.load(projectDir); ok &&
			snap.PackageJSONMTime == jsonMTime &&
			snap.PackageLockMTime == lockMTime {
			return snap.Providers, nil
		}
	}

	providers, err := m.scanner.Scan(projectDir)
	if err != nil {
		return nil, err
	}

	snap := Snapshot{
		ScannedAt: m.clock.Now(),
		// Mtimes were captured before the scan: a manifest rewritten while
		// we scanned invalidates this snapshot on the next run.
		PackageJSONMTime: jsonMTime,
		PackageLockMTime: lockMTime,
		Providers:        providers,
	}
	if err := m.store(projectDir, snap); err != nil {
		return nil, err
	}

	return providers, nil
}

// Path returns the cache file path for a project.
func (m *Manager) Path(projectDir string) string {
	return filepath.Join(projectDir, m.fileName)
}

// load reads the persisted snapshot. A missing or unparsable cache file
// reads as absent.
func (m *Manager) load(projectDir string) (*Snapshot, bool) {
	data, err := os.ReadFile(m.Path(projectDir))
	if err != nil {
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		m.logger.Debug("rebuilding corrupted scan cache", "path", m.Path(projectDir), "error", err)
		return nil, false
	}
	if snap.Providers == nil {
		snap.Providers = []npm.Provider{}
	}

	return &snap, true
}

// store persists the snapshot. Write failure is fatal: a project where the
// cache cannot be written will silently re-scan forever.
func (m *Manager) store(projectDir string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return issue.WrapWithOperation(err, "encode scan cache")
	}
	if err := os.WriteFile(m.Path(projectDir), data, 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write scan cache").
			WithResource(m.Path(projectDir)).
			WithSuggestion("Check ownership and permissions of the project directory").
			Wrap(err).
			BuildError()
	}
	return nil
}

// mtime returns a file's modification time in UnixNano, or 0 when the file
// does not exist. Nanosecond resolution is what lets rapid successive
// manifest writes invalidate the cache without wall-clock sleeps.
func mtime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}
