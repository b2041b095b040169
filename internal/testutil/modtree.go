// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

// ModTree is a throwaway host layout: a mods root and a fallback root under a
// common temporary directory.
type ModTree struct {
	t        testing.TB
	Root     string
	Mods     string
	Fallback string
}

// Manifest holds the fields written by ModTree.AddPackage. Empty fields are
// written as JSON null.
type Manifest struct {
	Name        string
	Description string
	Author      string
	Version     string
	Supported   string
}

// NewModTree creates <tmp>/mods and <tmp>/assets.
func NewModTree(t testing.TB) *ModTree {
	t.Helper()
	root := t.TempDir()
	tree := &ModTree{
		t:        t,
		Root:     root,
		Mods:     filepath.Join(root, "mods"),
		Fallback: filepath.Join(root, "assets"),
	}
	MustMkdirAll(t, tree.Mods, 0o755)
	MustMkdirAll(t, tree.Fallback, 0o755)
	return tree
}

// AddPackage writes m as <mods>/<dir>/manifest.json and returns the package
// directory.
func (m *ModTree) AddPackage(dir string, manifest Manifest) string {
	m.t.Helper()
	return m.AddManifest(dir, "manifest.json", manifest.JSON(m.t))
}

// AddManifest writes raw manifest content under an arbitrary file name and
// returns the package directory.
func (m *ModTree) AddManifest(dir, filename, content string) string {
	m.t.Helper()
	pkgDir := filepath.Join(m.Mods, dir)
	WriteFile(m.t, filepath.Join(pkgDir, filename), content)
	return pkgDir
}

// AddModFile writes an asset inside a package directory and returns its path.
// rel uses forward slashes.
func (m *ModTree) AddModFile(dir, rel, content string) string {
	m.t.Helper()
	p := filepath.Join(m.Mods, dir, filepath.FromSlash(rel))
	WriteFile(m.t, p, content)
	return p
}

// AddFallbackFile writes an asset under the fallback root and returns its path.
func (m *ModTree) AddFallbackFile(rel, content string) string {
	m.t.Helper()
	p := filepath.Join(m.Fallback, filepath.FromSlash(rel))
	WriteFile(m.t, p, content)
	return p
}

// JSON renders the manifest the way hosts ship it.
func (m Manifest) JSON(t testing.TB) string {
	t.Helper()
	data, err := json.MarshalIndent(map[string]*string{
		"Name":        nullable(m.Name),
		"Description": nullable(m.Description),
		"Author":      nullable(m.Author),
		"Version":     nullable(m.Version),
		"Supported":   nullable(m.Supported),
	}, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode manifest: %v", err)
	}
	return string(data)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
