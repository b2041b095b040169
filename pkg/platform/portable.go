// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNonPortableName is the sentinel error wrapped by NonPortableNameError.
var ErrNonPortableName = errors.New("non-portable name")

// reservedNames cannot be used as file or directory names on Windows,
// with or without an extension.
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// NonPortableNameError describes why a name would not survive a copy to
// another operating system.
type NonPortableNameError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *NonPortableNameError) Error() string {
	return fmt.Sprintf("%q is not portable: %s", e.Name, e.Reason)
}

// Unwrap returns ErrNonPortableName for errors.Is() compatibility.
func (e *NonPortableNameError) Unwrap() error { return ErrNonPortableName }

// IsWindowsReservedName reports whether name, ignoring case and extension, is
// a reserved device name on Windows.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(strings.ToUpper(name), ".")
	return reservedNames[base]
}

// CheckPortableName returns a *NonPortableNameError when a package directory
// called name could not be created, or would be renamed, on one of the
// supported platforms.
func CheckPortableName(name string) error {
	switch {
	case IsWindowsReservedName(name):
		return &NonPortableNameError{Name: name, Reason: "reserved device name on Windows"}
	case strings.HasSuffix(name, ".") || strings.HasSuffix(name, " "):
		return &NonPortableNameError{Name: name, Reason: "Windows strips trailing dots and spaces"}
	case strings.ContainsAny(name, `<>:"|?*\`):
		return &NonPortableNameError{Name: name, Reason: `contains one of <>:"|?*\`}
	}
	return nil
}
