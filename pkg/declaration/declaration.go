// SPDX-License-Identifier: MPL-2.0

// Package declaration parses the plugin declaration files that npm packages
// ship to advertise plugins.
//
// Two incompatible shapes exist in the wild: a single-plugin object and a
// marketplace object carrying a list of plugins. Both are validated against
// an embedded CUE schema and resolved at parse time into one normalized list
// of plugin entries, so downstream merge logic never branches on shape.
package declaration

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"plugsync-cli/pkg/cueutil"
)

// DefaultFileName is the declaration file probed inside each dependency's
// package root.
const DefaultFileName = "claude-plugin.json"

//go:embed declaration_schema.cue
var declarationSchema string

// ErrMissingSource is returned when a single-plugin declaration carries
// neither "source" nor "skillPath".
var ErrMissingSource = errors.New("declaration: one of source or skillPath is required")

type (
	// Kind tags which declaration shape was parsed.
	Kind int

	// PluginEntry is one normalized (name, source, version, description)
	// tuple. Both declaration shapes reduce to a list of these.
	PluginEntry struct {
		Name        string `json:"name"`
		Source      string `json:"source"`
		Version     string `json:"version"`
		Description string `json:"description"`
	}

	// Declaration is a parsed, validated, normalized declaration file.
	Declaration struct {
		// Kind reports which shape the file used.
		Kind Kind
		// Name is the declared plugin name (single shape) or the
		// marketplace display name (marketplace shape).
		Name string
		// Owner is set for the marketplace shape.
		Owner string
		// Author, License, and Homepage are optional single-shape metadata.
		Author   string
		License  string
		Homepage string
		// Plugins is the normalized entry list. Entries with an empty name
		// are dropped at parse time; the list may be empty but never nil.
		Plugins []PluginEntry
	}

	// rawDeclaration is the union of both shapes for decoding. The CUE
	// schema has already enforced per-shape required fields by the time
	// this struct is populated.
	rawDeclaration struct {
		Name        string        `json:"name"`
		Version     string        `json:"version"`
		Description string        `json:"description"`
		Source      string        `json:"source"`
		SkillPath   string        `json:"skillPath"`
		Author      string        `json:"author"`
		License     string        `json:"license"`
		Homepage    string        `json:"homepage"`
		Owner       string        `json:"owner"`
		Plugins     []PluginEntry `json:"plugins"`
	}
)

const (
	// KindSingle is the single-plugin object shape.
	KindSingle Kind = iota
	// KindMarketplace is the marketplace shape with a plugins list.
	KindMarketplace
)

// String returns a human-readable shape name.
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single-plugin"
	case KindMarketplace:
		return "marketplace"
	default:
		return "unknown"
	}
}

// Parse reads and parses the declaration file at path.
func Parse(path string) (*Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declaration: %w", err)
	}
	return ParseBytes(data, filepath.Base(path))
}

// ParseBytes validates data against the declaration schema and normalizes
// it. The filename is used in error messages only.
func ParseBytes(data []byte, filename string) (*Declaration, error) {
	result, err := cueutil.ParseAndDecodeString[rawDeclaration](
		declarationSchema,
		data,
		"#Declaration",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}

	return normalize(result.Value, filename)
}

// normalize resolves the shape tag and flattens to the entry list.
func normalize(raw *rawDeclaration, filename string) (*Declaration, error) {
	if raw.Plugins != nil {
		d := &Declaration{
			Kind:    KindMarketplace,
			Name:    raw.Name,
			Owner:   raw.Owner,
			Plugins: make([]PluginEntry, 0, len(raw.Plugins)),
		}
		for _, p := range raw.Plugins {
			if p.Name == "" {
				continue
			}
			d.Plugins = append(d.Plugins, p)
		}
		return d, nil
	}

	source := raw.Source
	if source == "" {
		source = raw.SkillPath
	}
	if source == "" {
		// The schema cannot express "one of source/skillPath"; enforced here.
		return nil, fmt.Errorf("%s: %w", filename, ErrMissingSource)
	}

	d := &Declaration{
		Kind:     KindSingle,
		Name:     raw.Name,
		Author:   raw.Author,
		License:  raw.License,
		Homepage: raw.Homepage,
		Plugins:  []PluginEntry{},
	}
	if raw.Name != "" {
		d.Plugins = append(d.Plugins, PluginEntry{
			Name:        raw.Name,
			Source:      source,
			Version:     raw.Version,
			Description: raw.Description,
		})
	}
	return d, nil
}
