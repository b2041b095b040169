// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Values are layered, lowest precedence first: DefaultConfig, the first
// config.cue found (explicit path, then the user config directory, then the
// working directory), and MODMAN_* environment variables. Config files are
// validated against config_schema.cue before they are merged; the merged
// result is validated again with Config.IsValid.
package config
