// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/modhost/modman/pkg/semver"
	"github.com/modhost/modman/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidHostVersion is the sentinel error wrapped by InvalidHostVersionError.
	ErrInvalidHostVersion = errors.New("invalid host version")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette for styled CLI output.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// HostVersion is the version of the host application packages are
	// classified against.
	HostVersion string

	// InvalidHostVersionError is returned when HostVersion does not parse.
	InvalidHostVersionError struct {
		Value HostVersion
	}

	// InvalidUIConfigError collects field errors of a UIConfig.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ModsRoot is the directory holding one subdirectory per package.
		ModsRoot types.FilesystemPath `json:"mods_root" mapstructure:"mods_root"`
		// FallbackRoot is the base asset directory.
		FallbackRoot types.FilesystemPath `json:"fallback_root" mapstructure:"fallback_root"`
		// HostVersion is compared against each manifest's Supported range.
		HostVersion HostVersion `json:"host_version" mapstructure:"host_version"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the HostVersion.
func (v HostVersion) String() string { return string(v) }

// IsValid reports whether the version parses as a semantic version.
func (v HostVersion) IsValid() (bool, []error) {
	if !semver.IsValidVersion(string(v)) {
		return false, []error{&InvalidHostVersionError{Value: v}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHostVersionError.
func (e *InvalidHostVersionError) Error() string {
	return fmt.Sprintf("invalid host version %q (expected MAJOR[.MINOR[.PATCH]])", e.Value)
}

// Unwrap returns ErrInvalidHostVersion for errors.Is() compatibility.
func (e *InvalidHostVersionError) Unwrap() error { return ErrInvalidHostVersion }

// IsValid returns whether the UIConfig has valid fields.
func (c UIConfig) IsValid() (bool, []error) {
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		return false, []error{&InvalidUIConfigError{FieldErrors: fieldErrs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields. Both roots must be
// non-empty, the host version must parse, and the UI block must be valid.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ModsRoot.IsValid(); !valid {
		errs = append(errs, fmt.Errorf("mods_root: %w", errors.Join(fieldErrs...)))
	}
	if valid, fieldErrs := c.FallbackRoot.IsValid(); !valid {
		errs = append(errs, fmt.Errorf("fallback_root: %w", errors.Join(fieldErrs...)))
	}
	if valid, fieldErrs := c.HostVersion.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig and the field errors, so errors.Is()
// matches both the config-level and the field-level sentinels.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ModsRoot:     "mods",
		FallbackRoot: "assets",
		HostVersion:  "0.0.0",
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}
