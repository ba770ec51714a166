// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the plugsync command line interface.
//
// The package follows a composition-root pattern: NewApp wires the config
// provider, the dependency scanner (behind its scan cache), and the
// settings store behind small service interfaces, and every Cobra handler
// delegates through an App. Tests replace individual services with fakes.
package cmd
