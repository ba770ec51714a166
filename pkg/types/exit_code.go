// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting value types shared by multiple
// packages. It is a leaf dependency: it imports only the standard library.
package types

// ExitCode represents a process exit status code.
// Exit codes are in the range 0-255 on POSIX systems.
// The zero value (0) means success.
type ExitCode int

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == 0 }
