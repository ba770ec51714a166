// SPDX-License-Identifier: MPL-2.0

package pluginkey

import "testing"

func TestMarketplaceKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		packageName string
		want        string
	}{
		{
			name:        "plain package name",
			packageName: "package-a",
			want:        "package-a-marketplace",
		},
		{
			name:        "scoped package folds scope into token",
			packageName: "@my-org/my-ai-plugin",
			want:        "my-org-my-ai-plugin-marketplace",
		},
		{
			name:        "dots normalize to hyphens",
			packageName: "my.plugin.pkg",
			want:        "my-plugin-pkg-marketplace",
		},
		{
			name:        "underscores normalize to hyphens",
			packageName: "my_plugin_pkg",
			want:        "my-plugin-pkg-marketplace",
		},
		{
			name:        "camel case splits on boundaries",
			packageName: "myAiPlugin",
			want:        "my-ai-plugin-marketplace",
		},
		{
			name:        "upper case lowers without duplicate hyphens",
			packageName: "My-Plugin",
			want:        "my-plugin-marketplace",
		},
		{
			name:        "scoped name with mixed separators",
			packageName: "@Scope.Name/some_pkg",
			want:        "scope-name-some-pkg-marketplace",
		},
		{
			name:        "single segment",
			packageName: "x",
			want:        "x-marketplace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := MarketplaceKey(tt.packageName); got != tt.want {
				t.Errorf("MarketplaceKey(%q) = %q, want %q", tt.packageName, got, tt.want)
			}
		})
	}
}

func TestPluginKey(t *testing.T) {
	t.Parallel()

	got := PluginKey("HelperPlugin", "package-a-marketplace")
	if got != "HelperPlugin@package-a-marketplace" {
		t.Errorf("PluginKey() = %q, want %q", got, "HelperPlugin@package-a-marketplace")
	}
}

func TestPluginKey_SameNameDistinctMarketplaces(t *testing.T) {
	t.Parallel()

	// Two packages declaring the same plugin name must not collide.
	a := PluginKey("HelperPlugin", MarketplaceKey("package-a"))
	b := PluginKey("HelperPlugin", MarketplaceKey("package-b"))
	if a == b {
		t.Errorf("plugin keys collided: %q", a)
	}
}

func TestPluginKey_VerbatimName(t *testing.T) {
	t.Parallel()

	// The declared plugin name is never re-cased.
	got := PluginKey("MixedCase.Name", "m-marketplace")
	if got != "MixedCase.Name@m-marketplace" {
		t.Errorf("PluginKey() = %q, plugin name must stay verbatim", got)
	}
}
