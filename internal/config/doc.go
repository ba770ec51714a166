// SPDX-License-Identifier: MPL-2.0

// Package config loads and validates the tool's own configuration.
//
// Configuration is layered: built-in defaults, then an optional JSON config
// file in the platform config directory (or an explicit --config path), then
// PLUGSYNC_* environment variables. The settings document managed by
// internal/settings is a different file and is not handled here.
package config
