// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"plugsync-cli/internal/npm"
	"plugsync-cli/pkg/pluginkey"
)

// Changes reports what a reconciliation did, in provider-then-declaration
// order. Names are the declared plugin names, not plugin keys.
type Changes struct {
	Added   []string `json:"added"`
	Updated []string `json:"updated"`
}

// Any reports whether the reconciliation changed anything.
func (c Changes) Any() bool {
	return len(c.Added) > 0 || len(c.Updated) > 0
}

// Reconcile diffs discovered providers against a settings document and
// returns the merged next document plus a change report. The input document
// is never mutated.
//
// Membership rules:
//   - a plugin key in disabled stays disabled forever (sticky), but its
//     marketplace metadata still tracks the latest discovered state
//   - a key in neither list is appended to enabled and reported as added
//   - a key already enabled is reported as updated when its stored version
//     or source changed
//
// Insertion always checks membership first, so enabled and disabled never
// accumulate duplicates across any re-sync sequence. When two syncs resolve
// the same marketplace key from different locations, the later one wins:
// source path and versions are overwritten, membership is unchanged.
func Reconcile(doc Document, providers []npm.Provider) (Document, Changes) {
	next := doc.Clone()
	next.backfillPlugins()

	plugins := next.pluginsSection()
	enabled := plugins[sectionEnabled].([]any)
	disabled := plugins[sectionDisabled].([]any)
	marketplaces := plugins[sectionMarketplaces].(map[string]any)

	var changes Changes
	for _, provider := range providers {
		if provider.Declaration == nil {
			continue
		}
		marketplaceKey := pluginkey.MarketplaceKey(provider.PackageName)
		entry := marketplaceEntry(marketplaces, marketplaceKey)

		// Last-sync-wins for the marketplace source location.
		source, ok := entry["source"].(map[string]any)
		if !ok {
			source = map[string]any{}
			entry["source"] = source
		}
		source["type"] = "directory"
		source["path"] = provider.Path

		entryPlugins, ok := entry["plugins"].(map[string]any)
		if !ok {
			entryPlugins = map[string]any{}
			entry["plugins"] = entryPlugins
		}

		for _, plugin := range provider.Declaration.Plugins {
			if plugin.Name == "" {
				continue
			}
			key := pluginkey.PluginKey(plugin.Name, marketplaceKey)

			prevVersion, prevSource, hadMeta := pluginMeta(entryPlugins, plugin.Name)

			// Metadata tracks the latest known state regardless of
			// enablement; foreign keys inside the meta object survive.
			meta, ok := entryPlugins[plugin.Name].(map[string]any)
			if !ok {
				meta = map[string]any{}
				entryPlugins[plugin.Name] = meta
			}
			meta["version"] = plugin.Version
			meta["source"] = plugin.Source

			switch {
			case containsKey(disabled, key):
				// Sticky: a user disable is never overridden.
			case !containsKey(enabled, key):
				enabled = append(enabled, key)
				changes.Added = append(changes.Added, plugin.Name)
			case !hadMeta || prevVersion != plugin.Version || prevSource != plugin.Source:
				changes.Updated = append(changes.Updated, plugin.Name)
			}
		}
	}

	plugins[sectionEnabled] = enabled
	return next, changes
}

// marketplaceEntry returns the entry for key, creating it when absent.
// Existing foreign keys inside the entry are preserved.
func marketplaceEntry(marketplaces map[string]any, key string) map[string]any {
	if entry, ok := marketplaces[key].(map[string]any); ok {
		return entry
	}
	entry := map[string]any{}
	marketplaces[key] = entry
	return entry
}

// pluginMeta reads the previously stored version/source for a plugin.
func pluginMeta(entryPlugins map[string]any, name string) (version, source string, ok bool) {
	meta, isMap := entryPlugins[name].(map[string]any)
	if !isMap {
		return "", "", false
	}
	version, _ = meta["version"].(string)
	source, _ = meta["source"].(string)
	return version, source, true
}
