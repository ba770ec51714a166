// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir sets the platform-appropriate home environment variable and
// returns a cleanup function restoring the original value.
//
// Platform handling:
//   - Windows: sets USERPROFILE
//   - Linux/macOS: sets HOME
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
