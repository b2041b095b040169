// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modman.
//
// The command tree is built around an App whose services (configuration and
// registry opening) are interfaces, so each command can be exercised against
// a temporary mod tree without touching the user's configuration.
package cmd
