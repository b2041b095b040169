// SPDX-License-Identifier: MPL-2.0

package modpkg

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Load scans the immediate subdirectories of modsRoot and parses one manifest
// per directory. Manifests and directory names are returned in directory
// listing order and share indices.
//
// A directory without a manifest contributes nothing. A directory with more
// than one manifest fails the whole load with a MalformedPackageError, as does
// any manifest that cannot be parsed. A missing modsRoot yields no packages.
func Load(modsRoot string, opts ...Option) ([]PackageManifest, []string, error) {
	s := newSettings(opts)
	return load(modsRoot, s.logger)
}

func load(modsRoot string, logger *log.Logger) ([]PackageManifest, []string, error) {
	entries, err := os.ReadDir(modsRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, &ConfigurationError{Path: modsRoot, Reason: "cannot list mods root", Cause: err}
	}

	var (
		manifests []PackageManifest
		dirs      []string
	)
	for _, entry := range entries {
		dirPath := filepath.Join(modsRoot, entry.Name())
		if !isDir(entry, dirPath) {
			continue
		}

		files, err := manifestFiles(dirPath)
		if err != nil {
			return nil, nil, err
		}

		switch len(files) {
		case 0:
			logger.Debug("skipping directory without manifest", "dir", entry.Name())
			continue
		case 1:
		default:
			return nil, nil, &MalformedPackageError{Dir: entry.Name(), Manifests: files}
		}

		m, err := ParseManifest(filepath.Join(dirPath, files[0]))
		if err != nil {
			return nil, nil, err
		}

		logger.Debug("discovered package", "dir", entry.Name(), "name", m.Name, "version", m.Version)
		manifests = append(manifests, m)
		dirs = append(dirs, entry.Name())
	}

	return manifests, dirs, nil
}

// Classify partitions manifest indices by calling compatible(version(),
// manifest.Supported) once per manifest. Each index lands in exactly one of
// the returned slices, in ascending order.
func Classify(manifests []PackageManifest, version VersionSupplier, compatible CompatibilityPredicate) (compat, incompat []int) {
	compat = make([]int, 0, len(manifests))
	incompat = make([]int, 0)
	for i, m := range manifests {
		if compatible(version(), m.Supported) {
			compat = append(compat, i)
		} else {
			incompat = append(incompat, i)
		}
	}
	return compat, incompat
}

// manifestFiles lists the manifest file names directly inside dir.
func manifestFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ConfigurationError{Path: dir, Reason: "cannot list package directory", Cause: err}
	}

	var files []string
	for _, entry := range entries {
		if !isManifestFile(entry.Name()) || !isFile(entry, filepath.Join(dir, entry.Name())) {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// isFile reports whether entry is a regular file, following symlinks.
func isFile(entry fs.DirEntry, path string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// isDir reports whether entry is a directory, following symlinks.
func isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
