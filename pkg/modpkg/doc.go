// SPDX-License-Identifier: MPL-2.0

// Package modpkg discovers mod packages on disk, classifies them against the
// host version, tracks the single active mod and routes asset lookups.
//
// A mods root holds one directory per package:
//
//	<mods root>/<package dir>/<manifest>.json
//
// Exactly one manifest is allowed per package directory. Directories without
// a manifest are ignored; directories with more than one abort loading.
//
// The registry is built once by New (scan + classify) and is read-mostly
// afterwards. Only Toggle mutates it. There is no internal locking: callers
// must serialize Toggle with other calls when they need consistent results
// across calls.
//
// Version semantics are owned by the host. The registry receives a version
// supplier and a compatibility predicate and treats both as opaque callables;
// see package semver for a ready-made predicate.
//
// File organization:
//   - manifest.go: PackageManifest and manifest parsing (CUE schema)
//   - discovery.go: Load and Classify
//   - registry.go: Registry construction, activation and accessors
//   - resolve.go: asset path resolution
//   - errors.go: sentinel and typed errors
package modpkg
