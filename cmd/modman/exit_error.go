// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/modhost/modman/internal/issue"
	"github.com/modhost/modman/pkg/modpkg"
	"github.com/modhost/modman/pkg/types"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// exitCodeOf maps err to the process exit status.
func exitCodeOf(err error) types.ExitCode {
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code.Validate() == nil {
		return exitErr.Code
	}
	return types.ExitFailure
}

// classifyRegistryError turns a registry construction failure into an
// actionable error with the matching exit code.
func classifyRegistryError(err error, modsRoot string) error {
	ctx := issue.NewErrorContext().
		WithOperation("load mod registry").
		WithResource(modsRoot).
		Wrap(err)

	var malformed *modpkg.MalformedPackageError
	var parseErr *modpkg.ManifestParseError
	switch {
	case errors.As(err, &malformed):
		ctx.WithResource(malformed.Dir).
			WithSuggestion("Keep exactly one .json manifest in the package directory").
			WithIssue(issue.MalformedPackageId)
	case errors.As(err, &parseErr):
		ctx.WithResource(parseErr.Path).
			WithIssue(issue.ManifestParseErrorId)
	case errors.Is(err, fs.ErrPermission):
		ctx.WithSuggestion("Check that modman can read and write the mods root and read the fallback root").
			WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, modpkg.ErrConfiguration):
		ctx.WithSuggestion("Pass --fallback and --mods, or run 'modman config show'").
			WithIssue(issue.RegistryConfigId)
	}

	return &ExitError{Code: types.ExitBadPackage, Err: ctx.Build()}
}

// classifyResolveError turns a failed Resolve into an actionable error.
func classifyResolveError(err error, path string) error {
	ctx := issue.NewErrorContext().
		WithOperation("resolve asset").
		WithResource(path).
		Wrap(err)

	var resErr *modpkg.PathResolutionError
	if errors.As(err, &resErr) {
		switch resErr.Reason {
		case modpkg.ReasonOutsideRoots:
			ctx.WithIssue(issue.PathOutsideRootsId)
		case modpkg.ReasonNotFound:
			ctx.WithIssue(issue.AssetNotFoundId)
		}
	}

	return &ExitError{Code: types.ExitNotResolved, Err: ctx.Build()}
}

// packageNotFound reports an unknown package selector.
func packageNotFound(selector string) error {
	return &ExitError{
		Code: types.ExitUsage,
		Err: issue.NewErrorContext().
			WithOperation("find package").
			WithResource(selector).
			WithIssue(issue.PackageNotFoundId).
			Build(),
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
