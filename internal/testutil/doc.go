// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv,
// MustUnsetenv, SetConfigHome), directory operations (MustChdir, MustMkdirAll,
// WriteFile), and ModTree, which lays out a mods root and a fallback root the
// way a host installation does.
package testutil
