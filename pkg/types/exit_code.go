// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitOK reports success.
	ExitOK ExitCode = 0
	// ExitFailure is the generic failure code.
	ExitFailure ExitCode = 1
	// ExitUsage reports invalid command-line usage.
	ExitUsage ExitCode = 2
	// ExitNotResolved reports that a requested asset path could not be resolved.
	ExitNotResolved ExitCode = 3
	// ExitBadPackage reports a configuration or malformed-package failure
	// while building the registry.
	ExitBadPackage ExitCode = 4
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status in the range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned for codes outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is() compatibility.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the code is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code means success.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// String returns the decimal representation.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
