// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"testing"

	"plugsync-cli/internal/npm"
)

func TestPluginState(t *testing.T) {
	doc := Document{
		sectionPlugins: map[string]any{
			sectionEnabled:      []any{"A@x-marketplace"},
			sectionDisabled:     []any{"B@x-marketplace", "A@y-marketplace"},
			sectionMarketplaces: map[string]any{},
		},
	}

	tests := []struct {
		name        string
		plugin      string
		marketplace string
		want        State
	}{
		{"enabled", "A", "x-marketplace", StateEnabled},
		{"disabled", "B", "x-marketplace", StateDisabled},
		{"not installed", "C", "x-marketplace", StateNotInstalled},
		{"same name other marketplace", "A", "y-marketplace", StateDisabled},
		{"unknown marketplace", "A", "z-marketplace", StateNotInstalled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PluginState(doc, tt.plugin, tt.marketplace); got != tt.want {
				t.Errorf("PluginState(%q, %q) = %v, want %v", tt.plugin, tt.marketplace, got, tt.want)
			}
		})
	}
}

func TestPluginStateDisabledWins(t *testing.T) {
	doc := Document{
		sectionPlugins: map[string]any{
			sectionEnabled:      []any{"A@x-marketplace"},
			sectionDisabled:     []any{"A@x-marketplace"},
			sectionMarketplaces: map[string]any{},
		},
	}
	if got := PluginState(doc, "A", "x-marketplace"); got != StateDisabled {
		t.Errorf("PluginState = %v, want %v when listed in both", got, StateDisabled)
	}
}

func TestPluginStateUnusableSection(t *testing.T) {
	// Documents that never went through a Store read have no backfilled
	// plugins subtree; lookups must degrade, not panic.
	tests := []struct {
		name string
		doc  Document
	}{
		{"empty document", Document{}},
		{"plugins not a map", Document{sectionPlugins: "oops"}},
		{"lists not arrays", Document{sectionPlugins: map[string]any{
			sectionEnabled:  "A@x-marketplace",
			sectionDisabled: 7,
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PluginState(tt.doc, "A", "x-marketplace"); got != StateNotInstalled {
				t.Errorf("PluginState = %v, want %v", got, StateNotInstalled)
			}
		})
	}
}

func TestPluginStates(t *testing.T) {
	providers := []npm.Provider{
		provider("pkg-a", "/n/pkg-a",
			entry("First", "./first", "1.0.0"),
			entry("Second", "./second", "2.0.0"),
		),
		provider("pkg-b", "/n/pkg-b",
			entry("First", "./first", "1.5.0"),
		),
		{PackageName: "no-declaration", Path: "/n/no-declaration"},
	}
	doc, _ := Reconcile(DefaultDocument(), providers)

	plugins := doc.pluginsSection()
	plugins[sectionDisabled] = []any{"Second@pkg-a-marketplace"}
	plugins[sectionEnabled] = []any{
		"First@pkg-a-marketplace",
		"First@pkg-b-marketplace",
	}

	statuses := PluginStates(providers, doc)
	if len(statuses) != 3 {
		t.Fatalf("got %d statuses, want 3: %+v", len(statuses), statuses)
	}

	want := []PluginStatus{
		{Name: "First", Marketplace: "pkg-a-marketplace", State: StateEnabled, Version: "1.0.0", Source: "./first"},
		{Name: "Second", Marketplace: "pkg-a-marketplace", State: StateDisabled, Version: "2.0.0", Source: "./second"},
		{Name: "First", Marketplace: "pkg-b-marketplace", State: StateEnabled, Version: "1.5.0", Source: "./first"},
	}
	for i, w := range want {
		if statuses[i] != w {
			t.Errorf("statuses[%d] = %+v, want %+v", i, statuses[i], w)
		}
	}
}
