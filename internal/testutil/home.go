// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"

	"github.com/modhost/modman/pkg/platform"
)

// SetConfigHome points os.UserConfigDir at dir for the duration of the test
// and returns a cleanup function restoring the previous value.
//
// Platform handling:
//   - Windows: sets APPDATA (config dir is dir)
//   - macOS: sets HOME (config dir is dir/Library/Application Support)
//   - others: sets XDG_CONFIG_HOME (config dir is dir)
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case platform.Windows:
		return MustSetenv(t, "APPDATA", dir)
	case platform.Darwin:
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}
