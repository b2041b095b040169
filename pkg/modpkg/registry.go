// SPDX-License-Identifier: MPL-2.0

package modpkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/modhost/modman/pkg/fspath"
	"github.com/modhost/modman/pkg/types"
)

// NoActive is the value ActiveIndex returns when no package is active.
const NoActive = -1

// packageNamespace seeds PackageID derivation. Changing it changes every ID.
var packageNamespace = uuid.MustParse("6f1f7a52-3c8e-4d0b-9a57-1d5e2b8c4f10")

type (
	// VersionSupplier returns the host's current version.
	VersionSupplier func() string

	// CompatibilityPredicate reports whether a package declaring supported
	// runs on hostVersion.
	CompatibilityPredicate func(hostVersion, supported string) bool

	// Host bundles the collaborators the host injects for classification.
	Host struct {
		Version    VersionSupplier
		Compatible CompatibilityPredicate
	}

	// Option configures a Registry or a Load call.
	Option func(*settings)

	settings struct {
		logger *log.Logger
	}

	// Entry is a snapshot of one package and its registry status.
	Entry struct {
		Index int
		// ID is derived from Dir and stays stable across runs as long as the
		// directory is not renamed.
		ID         uuid.UUID
		Dir        string
		Manifest   PackageManifest
		Compatible bool
		Active     bool
	}

	// Registry holds the discovered packages, their classification and the
	// active package. See the package documentation for the concurrency
	// contract.
	Registry struct {
		modsRoot     types.FilesystemPath
		fallbackRoot types.FilesystemPath

		manifests    []PackageManifest
		dirs         []string
		ids          []uuid.UUID
		compatible   []int
		incompatible []int
		active       int

		logger *log.Logger
	}
)

// WithLogger sets the logger used for discovery and resolution events.
func WithLogger(logger *log.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// StaticVersion returns a VersionSupplier that always reports v.
func StaticVersion(v string) VersionSupplier {
	return func() string { return v }
}

// PackageID derives the stable identifier of the package stored in dir.
// Directory names are compared case-insensitively, so the ID is too.
func PackageID(dir string) uuid.UUID {
	return uuid.NewSHA1(packageNamespace, []byte(strings.ToLower(dir)))
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "modman",
			Level:  log.WarnLevel,
		}),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// New builds a registry from the packages under modsRoot. fallbackRoot must be
// an existing directory; modsRoot is created when missing. Packages are
// classified once, here, against the version the host reports at this moment.
//
// Construction is all-or-nothing: any error leaves no usable registry.
func New(fallbackRoot, modsRoot string, host Host, opts ...Option) (*Registry, error) {
	s := newSettings(opts)

	if host.Version == nil || host.Compatible == nil {
		return nil, &ConfigurationError{Reason: "host version supplier and compatibility predicate are required"}
	}
	if valid, errs := types.FilesystemPath(fallbackRoot).IsValid(); !valid {
		return nil, &ConfigurationError{Reason: "fallback root is required", Cause: errors.Join(errs...)}
	}
	if valid, errs := types.FilesystemPath(modsRoot).IsValid(); !valid {
		return nil, &ConfigurationError{Reason: "mods root is required", Cause: errors.Join(errs...)}
	}

	fallbackAbs, err := fspath.Abs(types.FilesystemPath(fallbackRoot))
	if err != nil {
		return nil, &ConfigurationError{Path: fallbackRoot, Reason: "cannot resolve fallback root", Cause: err}
	}
	info, err := os.Stat(string(fallbackAbs))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &ConfigurationError{Path: string(fallbackAbs), Reason: "fallback root does not exist"}
	case err != nil:
		return nil, &ConfigurationError{Path: string(fallbackAbs), Reason: "cannot stat fallback root", Cause: err}
	case !info.IsDir():
		return nil, &ConfigurationError{Path: string(fallbackAbs), Reason: "fallback root is not a directory"}
	}

	modsAbs, err := fspath.Abs(types.FilesystemPath(modsRoot))
	if err != nil {
		return nil, &ConfigurationError{Path: modsRoot, Reason: "cannot resolve mods root", Cause: err}
	}
	if err := os.MkdirAll(string(modsAbs), 0o755); err != nil {
		return nil, &ConfigurationError{Path: string(modsAbs), Reason: "cannot create mods root", Cause: err}
	}

	manifests, dirs, err := load(string(modsAbs), s.logger)
	if err != nil {
		return nil, err
	}

	compat, incompat := Classify(manifests, host.Version, host.Compatible)

	ids := make([]uuid.UUID, len(dirs))
	for i, dir := range dirs {
		ids[i] = PackageID(dir)
	}

	s.logger.Debug("registry ready",
		"mods_root", modsAbs,
		"packages", len(manifests),
		"compatible", len(compat),
		"incompatible", len(incompat))

	return &Registry{
		modsRoot:     modsAbs,
		fallbackRoot: fallbackAbs,
		manifests:    manifests,
		dirs:         dirs,
		ids:          ids,
		compatible:   compat,
		incompatible: incompat,
		active:       NoActive,
		logger:       s.logger,
	}, nil
}

// Toggle activates the package at index, or deactivates it when it is already
// the active one. It returns true only when the call left the package active.
//
// index is clamped into the valid range rather than rejected, so -5 behaves
// like 0 and len+10 like len-1. Incompatible packages are never activated and
// leave the current state untouched. Activating a package replaces any
// previously active one.
func (r *Registry) Toggle(index int) bool {
	if len(r.manifests) == 0 {
		return false
	}
	i := r.clamp(index)

	if !r.IsCompatible(i) {
		r.logger.Debug("refusing to activate incompatible package", "index", i, "dir", r.dirs[i])
		return false
	}

	if i == r.active {
		r.active = NoActive
		r.logger.Debug("deactivated package", "index", i, "dir", r.dirs[i])
		return false
	}

	r.active = i
	r.logger.Debug("activated package", "index", i, "dir", r.dirs[i])
	return true
}

// ActiveIndex returns the index of the active package, or NoActive.
func (r *Registry) ActiveIndex() int { return r.active }

// Active returns the active package's manifest.
func (r *Registry) Active() (PackageManifest, bool) {
	if r.active == NoActive {
		return PackageManifest{}, false
	}
	return r.manifests[r.active], true
}

// Len returns the number of discovered packages.
func (r *Registry) Len() int { return len(r.manifests) }

// All returns every package in discovery order.
func (r *Registry) All() []PackageManifest {
	return slices.Clone(r.manifests)
}

// Compatible returns the compatible packages in classification order.
func (r *Registry) Compatible() []PackageManifest {
	return r.pick(r.compatible)
}

// Incompatible returns the incompatible packages in classification order.
func (r *Registry) Incompatible() []PackageManifest {
	return r.pick(r.incompatible)
}

// Package returns the package at index, clamped into the valid range.
// It fails with ErrEmptyRegistry when there are no packages.
func (r *Registry) Package(index int) (PackageManifest, error) {
	if len(r.manifests) == 0 {
		return PackageManifest{}, ErrEmptyRegistry
	}
	return r.manifests[r.clamp(index)], nil
}

// IsCompatible reports whether index was classified compatible. Out-of-range
// indices are not compatible.
func (r *Registry) IsCompatible(index int) bool {
	return slices.Contains(r.compatible, index)
}

// IndexOf returns the index of the package stored in dir. Directory names
// match case-insensitively.
func (r *Registry) IndexOf(dir string) (int, bool) {
	for i, d := range r.dirs {
		if strings.EqualFold(d, dir) {
			return i, true
		}
	}
	return NoActive, false
}

// Entries returns a snapshot of every package with its status, in discovery
// order.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, len(r.manifests))
	for i, m := range r.manifests {
		entries[i] = Entry{
			Index:      i,
			ID:         r.ids[i],
			Dir:        r.dirs[i],
			Manifest:   m,
			Compatible: r.IsCompatible(i),
			Active:     i == r.active,
		}
	}
	return entries
}

// ModsRoot returns the absolute mods root.
func (r *Registry) ModsRoot() string { return string(r.modsRoot) }

// FallbackRoot returns the absolute fallback root.
func (r *Registry) FallbackRoot() string { return string(r.fallbackRoot) }

func (r *Registry) pick(indices []int) []PackageManifest {
	out := make([]PackageManifest, len(indices))
	for i, idx := range indices {
		out[i] = r.manifests[idx]
	}
	return out
}

func (r *Registry) clamp(index int) int {
	return max(0, min(index, len(r.manifests)-1))
}

// String summarizes the registry for logs.
func (r *Registry) String() string {
	return fmt.Sprintf("registry(%s: %d packages, %d compatible, active=%d)",
		r.modsRoot, len(r.manifests), len(r.compatible), r.active)
}
