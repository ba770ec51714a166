// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"plugsync-cli/internal/npm"
	"plugsync-cli/pkg/pluginkey"
)

// State classifies a plugin's membership in the settings document.
type State string

const (
	StateEnabled      State = "ENABLED"
	StateDisabled     State = "DISABLED"
	StateNotInstalled State = "NOT_INSTALLED"
)

// PluginStatus is one row of the status report for a discovered plugin.
type PluginStatus struct {
	Name        string `json:"name"`
	Marketplace string `json:"marketplace"`
	State       State  `json:"state"`
	Version     string `json:"version,omitempty"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description,omitempty"`
}

// PluginState reports where a plugin currently stands in doc. Disabled takes
// precedence over enabled when a key somehow appears in both lists.
func PluginState(doc Document, pluginName, marketplaceKey string) State {
	plugins := doc.pluginsSection()
	if plugins == nil {
		return StateNotInstalled
	}
	key := pluginkey.PluginKey(pluginName, marketplaceKey)
	if disabled, ok := plugins[sectionDisabled].([]any); ok && containsKey(disabled, key) {
		return StateDisabled
	}
	if enabled, ok := plugins[sectionEnabled].([]any); ok && containsKey(enabled, key) {
		return StateEnabled
	}
	return StateNotInstalled
}

// PluginStates builds the status report for every plugin the providers
// declare, in provider order and declaration order within each provider.
func PluginStates(providers []npm.Provider, doc Document) []PluginStatus {
	var statuses []PluginStatus
	for _, p := range providers {
		if p.Declaration == nil {
			continue
		}
		marketplaceKey := pluginkey.MarketplaceKey(p.PackageName)
		for _, entry := range p.Declaration.Plugins {
			statuses = append(statuses, PluginStatus{
				Name:        entry.Name,
				Marketplace: marketplaceKey,
				State:       PluginState(doc, entry.Name, marketplaceKey),
				Version:     entry.Version,
				Source:      entry.Source,
				Description: entry.Description,
			})
		}
	}
	return statuses
}
