// SPDX-License-Identifier: MPL-2.0

package modpkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/modhost/modman/pkg/fspath"
	"github.com/modhost/modman/pkg/types"
)

// Resolve maps a requested asset path to the file that should be used.
//
// Relative paths are looked up in the active package's directory first and
// then in the fallback root; with no active package only the fallback root is
// consulted. A relative path may not climb out of its root with "..".
//
// Absolute paths, after trimming surrounding whitespace, must point inside
// the mods root or the fallback root (the comparison ignores case). They skip
// the override search and are returned as-is when the file exists.
//
// Failures are *PathResolutionError values and never change registry state.
func (r *Registry) Resolve(requested string) (string, error) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return "", r.fail(requested, ReasonNotFound)
	}
	if abs := types.FilesystemPath(trimmed); fspath.IsAbs(abs) {
		return r.resolveAbsolute(requested, abs)
	}

	// Surrounding spaces are part of a relative file name.
	rel := filepath.Clean(filepath.FromSlash(requested))
	if !filepath.IsLocal(rel) {
		return "", r.fail(requested, ReasonOutsideRoots)
	}

	if r.active != NoActive {
		candidate := fspath.JoinStr(r.modsRoot, r.dirs[r.active], rel)
		if fileExists(candidate) {
			r.logger.Debug("resolved from active package", "path", requested, "dir", r.dirs[r.active])
			return string(candidate), nil
		}
	}

	candidate := fspath.JoinStr(r.fallbackRoot, rel)
	if fileExists(candidate) {
		r.logger.Debug("resolved from fallback root", "path", requested)
		return string(candidate), nil
	}

	return "", r.fail(requested, ReasonNotFound)
}

func (r *Registry) resolveAbsolute(requested string, p types.FilesystemPath) (string, error) {
	p = fspath.Clean(p)
	if !fspath.IsWithin(r.modsRoot, p) && !fspath.IsWithin(r.fallbackRoot, p) {
		return "", r.fail(requested, ReasonOutsideRoots)
	}
	if !fileExists(p) {
		return "", r.fail(requested, ReasonNotFound)
	}
	r.logger.Debug("resolved absolute path", "path", p)
	return string(p), nil
}

func (r *Registry) fail(requested string, reason ResolutionReason) error {
	r.logger.Debug("path resolution failed", "path", requested, "reason", reason)
	return &PathResolutionError{Path: requested, Reason: reason}
}

// fileExists reports whether p names an existing non-directory file.
func fileExists(p types.FilesystemPath) bool {
	info, err := os.Stat(string(p))
	return err == nil && !info.IsDir()
}
