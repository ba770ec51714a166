// SPDX-License-Identifier: MPL-2.0

// Package npm scans a project's direct npm dependencies for plugin
// declarations.
//
// Only the manifest's "dependencies" map is consulted (not dev or peer
// dependencies), and only one level deep: transitive dependencies are out of
// scope. A dependency that is missing on disk, or ships a malformed
// declaration, is skipped without aborting the scan; the only fatal input is
// a project manifest that exists but cannot be parsed.
package npm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"plugsync-cli/internal/issue"
	"plugsync-cli/pkg/declaration"

	"github.com/charmbracelet/log"
)

const (
	// ManifestName is the npm project manifest filename.
	ManifestName = "package.json"
	// LockName is the npm lockfile filename. Its existence and mtime feed
	// cache validity; its content is never parsed here.
	LockName = "package-lock.json"
)

type (
	// Provider is an npm package that ships a valid plugin declaration.
	// Providers are ephemeral: rebuilt on every scan or restored from the
	// scan cache, never authoritative.
	Provider struct {
		// PackageName is the npm package name, possibly scoped.
		PackageName string `json:"packageName"`
		// Version is the package's own version, best-effort (may be empty
		// when the package manifest is unreadable).
		Version string `json:"version"`
		// Path is the absolute path of the package directory. It existed
		// at scan time.
		Path string `json:"path"`
		// Declaration is the parsed, normalized plugin declaration.
		Declaration *declaration.Declaration `json:"declaration"`
	}

	// Scanner discovers providers among a project's direct dependencies.
	Scanner struct {
		declarationFile string
		logger          *log.Logger
	}

	// packageManifest captures the two package.json fields the scanner
	// reads. Dependencies stays raw so key order can be recovered.
	packageManifest struct {
		Version      string          `json:"version"`
		Dependencies json.RawMessage `json:"dependencies"`
	}
)

// NewScanner creates a Scanner probing for declarationFile inside each
// dependency. A nil logger falls back to the package default.
func NewScanner(declarationFile string, logger *log.Logger) *Scanner {
	if declarationFile == "" {
		declarationFile = declaration.DefaultFileName
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{declarationFile: declarationFile, logger: logger}
}

// Scan reads the project manifest at projectDir and returns the providers
// found among its direct dependencies, in manifest-declaration order.
//
// A missing manifest or node_modules is normal (zero providers, no error).
// A manifest that exists but is not valid JSON is a fatal input error.
func (s *Scanner) Scan(projectDir string) ([]Provider, error) {
	manifestPath := filepath.Join(projectDir, ManifestName)
	data, err := os.ReadFile(manifestPath)
	if os.IsNotExist(err) {
		return []Provider{}, nil
	}
	if err != nil {
		return nil, issue.WrapWithContext(err, "read project manifest", manifestPath)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse project manifest").
			WithResource(manifestPath).
			WithSuggestion("Check the file for JSON syntax errors").
			Wrap(fmt.Errorf("invalid json: %w", err)).
			BuildError()
	}

	names, err := dependencyNames(manifest.Dependencies)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse project manifest").
			WithResource(manifestPath).
			WithSuggestion(`"dependencies" must be a JSON object`).
			Wrap(err).
			BuildError()
	}

	providers := make([]Provider, 0, len(names))
	for _, name := range names {
		if p := s.probe(projectDir, name); p != nil {
			providers = append(providers, *p)
		}
	}

	return providers, nil
}

// probe resolves one dependency and returns its provider record, or nil
// when the dependency is absent, declares no plugin, or declares one
// invalidly. Per-dependency problems never abort the scan.
func (s *Scanner) probe(projectDir, name string) *Provider {
	// Scoped names ("@scope/name") span two path segments; filepath.Join
	// handles that. os.Stat follows symlinked node_modules entries; a
	// dangling symlink degrades to "no provider found".
	pkgDir := filepath.Join(projectDir, "node_modules", name)
	info, err := os.Stat(pkgDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	declPath := filepath.Join(pkgDir, s.declarationFile)
	if _, err := os.Stat(declPath); err != nil {
		return nil // not a provider
	}

	decl, err := declaration.Parse(declPath)
	if err != nil {
		s.logger.Warn("skipping package with invalid plugin declaration",
			"package", name, "error", err)
		return nil
	}

	absDir, err := filepath.Abs(pkgDir)
	if err != nil {
		s.logger.Warn("skipping package with unresolvable path",
			"package", name, "error", err)
		return nil
	}

	return &Provider{
		PackageName: name,
		Version:     packageVersion(pkgDir),
		Path:        absDir,
		Declaration: decl,
	}
}

// packageVersion reads the dependency's own manifest version, best-effort.
func packageVersion(pkgDir string) string {
	data, err := os.ReadFile(filepath.Join(pkgDir, ManifestName))
	if err != nil {
		return ""
	}
	var m packageManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	return m.Version
}

// dependencyNames extracts the keys of the raw "dependencies" object in
// declaration order. encoding/json maps do not preserve order, so the keys
// are walked with a token decoder instead.
func dependencyNames(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("invalid dependencies: expected object, got %v", tok)
	}

	var names []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid dependencies: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("invalid dependencies: non-string key %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid dependencies: %w", err)
		}

		names = append(names, key)
	}

	return names, nil
}
