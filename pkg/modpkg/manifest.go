// SPDX-License-Identifier: MPL-2.0

package modpkg

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/modhost/modman/pkg/cueutil"
	"github.com/modhost/modman/pkg/types"
)

const (
	// ManifestExt is the extension of manifest files inside a package directory.
	ManifestExt = ".json"

	// MaxManifestSize caps the size of a single manifest file.
	MaxManifestSize int64 = 1 << 20

	manifestSchemaPath = "#PackageManifest"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// PackageManifest describes one mod package. Values are copied out of the
// registry, so modifying a returned manifest never affects registry state.
type PackageManifest struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
	Author      string `json:"Author"`
	Version     string `json:"Version"`
	// Supported is an opaque host version or range token. Only the host's
	// compatibility predicate interprets it.
	Supported string `json:"Supported"`
}

// manifestDocument mirrors the on-disk shape, where every field may be null.
type manifestDocument struct {
	Name        *string `json:"Name"`
	Description *string `json:"Description"`
	Author      *string `json:"Author"`
	Version     *string `json:"Version"`
	Supported   *string `json:"Supported"`
}

func (d manifestDocument) manifest() PackageManifest {
	return PackageManifest{
		Name:        deref(d.Name),
		Description: deref(d.Description),
		Author:      deref(d.Author),
		Version:     deref(d.Version),
		Supported:   deref(d.Supported),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IsValid reports whether the manifest's free-text fields are well formed.
// Manifests are accepted by the loader regardless; this is for tooling that
// wants to warn about sloppy metadata.
func (m PackageManifest) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := types.DescriptionText(m.Description).IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if m.Name != "" && strings.TrimSpace(m.Name) == "" {
		errs = append(errs, fmt.Errorf("name must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// ParseManifest reads and decodes a manifest file.
func ParseManifest(path string) (PackageManifest, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PackageManifest{}, &ManifestParseError{Path: path, Cause: err}
	}
	if info.Size() > MaxManifestSize {
		return PackageManifest{}, &ManifestParseError{
			Path:  path,
			Cause: fmt.Errorf("file size %d bytes exceeds maximum %d bytes", info.Size(), MaxManifestSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PackageManifest{}, &ManifestParseError{Path: path, Cause: err}
	}

	return ParseManifestBytes(data, path)
}

// ParseManifestBytes decodes manifest content. filename is only used in error
// messages. Null and absent fields decode as empty strings.
func ParseManifestBytes(data []byte, filename string) (PackageManifest, error) {
	result, err := cueutil.ParseAndDecode[manifestDocument](
		manifestSchema,
		data,
		manifestSchemaPath,
		cueutil.WithFilename(filename),
		cueutil.WithMaxFileSize(MaxManifestSize),
	)
	if err != nil {
		return PackageManifest{}, &ManifestParseError{Path: filename, Cause: err}
	}
	return result.Value.manifest(), nil
}

// isManifestFile reports whether a directory entry name carries the manifest
// extension. The match ignores case.
func isManifestFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ManifestExt)
}
