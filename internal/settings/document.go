// SPDX-License-Identifier: MPL-2.0

package settings

// Document is the decoded settings file. Only the plugins.{enabled,
// disabled, marketplaces} subtree is owned by this package; every other
// key, at any depth, is opaque and must survive each merge unchanged.
// That is why the document stays a generic JSON map rather than a struct.
type Document map[string]any

// sectionPlugins and friends name the owned subtree.
const (
	sectionPlugins      = "plugins"
	sectionEnabled      = "enabled"
	sectionDisabled     = "disabled"
	sectionMarketplaces = "marketplaces"
)

// DefaultDocument returns the structure used when no settings file exists.
func DefaultDocument() Document {
	return Document{
		sectionPlugins: map[string]any{
			sectionEnabled:      []any{},
			sectionDisabled:     []any{},
			sectionMarketplaces: map[string]any{},
		},
	}
}

// Clone returns a deep copy. Mutating the copy never aliases the original.
func (d Document) Clone() Document {
	return Document(deepCopyMap(d))
}

// backfillPlugins repairs the owned subtree in place: a missing or
// malformed plugins section, or any missing/malformed child, is replaced
// with its empty form. Siblings and unrecognized nested keys are untouched.
func (d Document) backfillPlugins() {
	plugins, ok := d[sectionPlugins].(map[string]any)
	if !ok {
		plugins = map[string]any{}
		d[sectionPlugins] = plugins
	}
	if _, ok := plugins[sectionEnabled].([]any); !ok {
		plugins[sectionEnabled] = []any{}
	}
	if _, ok := plugins[sectionDisabled].([]any); !ok {
		plugins[sectionDisabled] = []any{}
	}
	if _, ok := plugins[sectionMarketplaces].(map[string]any); !ok {
		plugins[sectionMarketplaces] = map[string]any{}
	}
}

// pluginsSection returns the owned subtree, or nil when it is absent or
// malformed. Documents that went through backfillPlugins always yield a
// non-nil result.
func (d Document) pluginsSection() map[string]any {
	plugins, _ := d[sectionPlugins].(map[string]any)
	return plugins
}

// deepCopyMap copies a decoded JSON tree. Only the types produced by
// encoding/json need handling.
func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyMap(t)
	case Document:
		return deepCopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable.
		return t
	}
}

// containsKey reports whether list (a decoded JSON array) holds key.
func containsKey(list []any, key string) bool {
	for _, v := range list {
		if s, ok := v.(string); ok && s == key {
			return true
		}
	}
	return false
}
