// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptionText is the sentinel error wrapped by InvalidDescriptionTextError.
var ErrInvalidDescriptionText = errors.New("invalid description text")

type (
	// DescriptionText is free-form text such as a package description.
	// Empty is allowed; whitespace-only is not.
	DescriptionText string

	// InvalidDescriptionTextError is returned for whitespace-only text.
	InvalidDescriptionTextError struct {
		Value DescriptionText
	}
)

// String returns the text.
func (d DescriptionText) String() string { return string(d) }

// IsValid reports whether the text is empty or has visible content.
func (d DescriptionText) IsValid() (bool, []error) {
	if d != "" && strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidDescriptionTextError{Value: d}}
	}
	return true, nil
}

// Summary returns the first line of the text, trimmed to at most width runes.
// A width of zero or less disables trimming.
func (d DescriptionText) Summary(width int) string {
	line, _, _ := strings.Cut(strings.TrimSpace(string(d)), "\n")
	runes := []rune(strings.TrimSpace(line))
	if width <= 0 || len(runes) <= width {
		return string(runes)
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

// Error implements the error interface for InvalidDescriptionTextError.
func (e *InvalidDescriptionTextError) Error() string {
	return fmt.Sprintf("invalid description text: non-empty value must not be whitespace-only (got %q)", e.Value)
}

// Unwrap returns ErrInvalidDescriptionText for errors.Is() compatibility.
func (e *InvalidDescriptionTextError) Unwrap() error { return ErrInvalidDescriptionText }
