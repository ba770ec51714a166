// SPDX-License-Identifier: MPL-2.0

// Package pluginkey derives the stable identifiers that tie a discovered
// plugin to its enablement state in the settings document.
//
// Two keys exist:
//
//   - marketplace key: a deterministic, kebab-cased identifier derived from
//     the providing npm package name, suffixed with "-marketplace"
//   - plugin key: "<pluginName>@<marketplaceKey>", the unique handle for one
//     plugin's enablement state
//
// Plugin names are used verbatim in plugin keys; only the package-name side
// is normalized. Two packages declaring the same plugin name therefore never
// collide: each keeps its own marketplace key.
//
// This package is a leaf dependency: it imports only the standard library.
package pluginkey

import "strings"

// MarketplaceSuffix is appended to the kebab-cased package name to form
// the marketplace key.
const MarketplaceSuffix = "-marketplace"

// MarketplaceKey derives the marketplace key for an npm package name.
// Scoped names fold the scope into the token:
//
//	@my-org/my-ai-plugin -> my-org-my-ai-plugin-marketplace
//	Some_Package.Name    -> some-package-name-marketplace
func MarketplaceKey(packageName string) string {
	return kebabCase(unscope(packageName)) + MarketplaceSuffix
}

// PluginKey composes the unique handle for one plugin's enablement state.
// The declared plugin name is used verbatim, not re-cased.
func PluginKey(pluginName, marketplaceKey string) string {
	return pluginName + "@" + marketplaceKey
}

// unscope removes the leading "@" of a scoped npm name and joins the scope
// and package segments with a hyphen. Unscoped names pass through unchanged.
func unscope(packageName string) string {
	if !strings.HasPrefix(packageName, "@") {
		return packageName
	}
	return strings.Replace(strings.TrimPrefix(packageName, "@"), "/", "-", 1)
}

// kebabCase normalizes a name to lowercase-hyphenated form. Dots,
// underscores, spaces, and slashes become hyphens; a lower-to-upper case
// boundary inserts a hyphen; runs of hyphens collapse.
func kebabCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)

	prevLower := false
	prevHyphen := true // suppress a leading hyphen
	for _, r := range s {
		switch {
		case r == '.' || r == '_' || r == ' ' || r == '/' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower && !prevHyphen {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevHyphen = false
			prevLower = false
		default:
			b.WriteRune(r)
			prevHyphen = false
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
