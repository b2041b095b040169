// SPDX-License-Identifier: MPL-2.0

package modpkg

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ReasonOutsideRoots means the requested path does not lie under the mods
	// root or the fallback root.
	ReasonOutsideRoots ResolutionReason = iota + 1
	// ReasonNotFound means no file exists for the requested path in the
	// active mod or the fallback root.
	ReasonNotFound
)

var (
	// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
	ErrConfiguration = errors.New("invalid registry configuration")
	// ErrMalformedPackage is the sentinel error wrapped by MalformedPackageError.
	ErrMalformedPackage = errors.New("malformed package")
	// ErrManifestParse is the sentinel error wrapped by ManifestParseError.
	ErrManifestParse = errors.New("failed to parse manifest")
	// ErrPathResolution is the sentinel error wrapped by PathResolutionError.
	ErrPathResolution = errors.New("path resolution failed")
	// ErrEmptyRegistry is returned by index lookups on a registry without packages.
	ErrEmptyRegistry = errors.New("registry has no packages")
)

type (
	// ResolutionReason tells why a path could not be resolved.
	ResolutionReason int

	// ConfigurationError is returned by New when the registry inputs are unusable
	// (missing fallback root, nil host collaborators, unreadable mods root).
	// It wraps ErrConfiguration for errors.Is() compatibility.
	ConfigurationError struct {
		Path   string
		Reason string
		Cause  error
	}

	// MalformedPackageError is returned when a package directory holds more than
	// one manifest file. It aborts the whole load.
	MalformedPackageError struct {
		// Dir is the package directory name under the mods root.
		Dir string
		// Manifests lists the manifest file names found in Dir.
		Manifests []string
	}

	// ManifestParseError is returned when a manifest cannot be read or does not
	// match the manifest schema.
	ManifestParseError struct {
		Path  string
		Cause error
	}

	// PathResolutionError is returned by Resolve. The registry is left untouched
	// and stays usable.
	PathResolutionError struct {
		Path   string
		Reason ResolutionReason
	}
)

// String returns a short description of the reason.
func (r ResolutionReason) String() string {
	switch r {
	case ReasonOutsideRoots:
		return "path outside managed roots"
	case ReasonNotFound:
		return "not found in active mod or fallback location"
	default:
		return "unknown"
	}
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid registry configuration: %s", e.Reason)
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns ErrConfiguration and, when set, the underlying cause, so
// errors.Is also matches conditions such as fs.ErrPermission.
func (e *ConfigurationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Cause}
}

// Error implements the error interface for MalformedPackageError.
func (e *MalformedPackageError) Error() string {
	return fmt.Sprintf("malformed package %q: expected exactly one manifest, found %d (%s)",
		e.Dir, len(e.Manifests), strings.Join(e.Manifests, ", "))
}

// Unwrap returns ErrMalformedPackage for errors.Is() compatibility.
func (e *MalformedPackageError) Unwrap() error { return ErrMalformedPackage }

// Error implements the error interface for ManifestParseError.
func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("failed to parse manifest %s: %v", e.Path, e.Cause)
}

// Unwrap returns both ErrManifestParse and the underlying cause.
func (e *ManifestParseError) Unwrap() []error { return []error{ErrManifestParse, e.Cause} }

// Error implements the error interface for PathResolutionError.
func (e *PathResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrPathResolution for errors.Is() compatibility.
func (e *PathResolutionError) Unwrap() error { return ErrPathResolution }
