// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"

	"plugsync-cli/internal/issue"
	"plugsync-cli/internal/npm"

	"github.com/charmbracelet/log"
)

// BackupSuffix is appended to the settings path for the pre-write snapshot
// and for salvaged corrupted bytes.
const BackupSuffix = ".bak"

// Store owns read/repair/write of the settings document. Each invocation
// computes its merge against its own read snapshot and commits through an
// atomic rename, so readers never observe a torn file; concurrent writers
// resolve last-writer-wins.
type Store struct {
	logger *log.Logger
}

// NewStore creates a Store. A nil logger falls back to the package default.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{logger: logger}
}

// Read loads the settings document at path.
//
// An absent file yields the default structure without touching disk. An
// unparsable file is salvaged: the corrupted bytes are copied to the backup
// path, a warning is logged, and the default structure is returned. A
// parsable file gets only its missing plugins pieces backfilled in memory;
// everything else is preserved verbatim.
func (s *Store) Read(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultDocument(), nil
	}
	if err != nil {
		return nil, issue.WrapWithContext(err, "read settings", path)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		backupPath := path + BackupSuffix
		if werr := os.WriteFile(backupPath, data, 0o644); werr != nil {
			return nil, issue.NewErrorContext().
				WithOperation("back up corrupted settings").
				WithResource(backupPath).
				WithSuggestion("Check ownership and permissions of the settings directory").
				Wrap(werr).
				BuildError()
		}
		s.logger.Warn("settings file was corrupted; starting over from defaults",
			"path", path, "backup", backupPath, "error", err)
		return DefaultDocument(), nil
	}
	if doc == nil {
		// "null" parses but carries nothing.
		doc = Document{}
	}

	doc.backfillPlugins()
	return doc, nil
}

// Update merges providers into the settings document at path and reports
// what changed. When the merged document equals the current one the file is
// left completely untouched: no backup, no write, no mtime change.
func (s *Store) Update(path string, providers []npm.Provider) (Changes, error) {
	current, err := s.Read(path)
	if err != nil {
		return Changes{}, err
	}

	next, changes := Reconcile(current, providers)
	if reflect.DeepEqual(current, next) {
		return changes, nil
	}

	if err := s.write(path, next); err != nil {
		return Changes{}, err
	}
	return changes, nil
}

// write snapshots the current on-disk bytes to the backup path, then
// replaces the settings file via write-to-temp and rename. An interrupted
// write leaves the previous valid file intact.
func (s *Store) write(path string, doc Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return writeDenied(err, dir)
	}

	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+BackupSuffix, prev, 0o644); err != nil {
			return writeDenied(err, path+BackupSuffix)
		}
	} else if !os.IsNotExist(err) {
		return issue.WrapWithContext(err, "read settings", path)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return issue.WrapWithOperation(err, "encode settings")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return writeDenied(err, dir)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return writeDenied(err, tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return writeDenied(err, tmpPath)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return writeDenied(err, tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return writeDenied(err, path)
	}

	return nil
}

func writeDenied(err error, resource string) error {
	return issue.NewErrorContext().
		WithOperation("write settings").
		WithResource(resource).
		WithSuggestion("Check ownership and permissions of the settings directory").
		Wrap(err).
		BuildError()
}
