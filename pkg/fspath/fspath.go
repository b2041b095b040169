// SPDX-License-Identifier: MPL-2.0

// Package fspath provides path/filepath helpers that accept and return
// types.FilesystemPath, plus the root-containment check used when routing
// asset lookups.
package fspath

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/modhost/modman/pkg/types"
)

// JoinStr joins a typed base path with raw segments (directory names from
// os.ReadDir, relative asset paths).
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Abs wraps filepath.Abs.
func Abs(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return "", fmt.Errorf("resolving absolute path: %w", err)
	}
	return types.FilesystemPath(abs), nil
}

// Clean wraps filepath.Clean.
func Clean(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Clean(string(p)))
}

// IsAbs wraps filepath.IsAbs.
func IsAbs(p types.FilesystemPath) bool {
	return filepath.IsAbs(string(p))
}

// IsWithin reports whether p equals root or lies beneath it. Both paths are
// cleaned first and compared without regard to case. The match is anchored
// on a separator, so "/srv/mods2" is not within "/srv/mods".
func IsWithin(root, p types.FilesystemPath) bool {
	r := filepath.Clean(string(root))
	c := filepath.Clean(string(p))
	if strings.EqualFold(r, c) {
		return true
	}

	prefix := r
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return len(c) > len(prefix) && strings.EqualFold(c[:len(prefix)], prefix)
}
