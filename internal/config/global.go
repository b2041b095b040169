// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory when set. Tests
// use it because os.UserConfigDir reads different variables per platform.
var configDirOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride sets a custom config directory path.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
