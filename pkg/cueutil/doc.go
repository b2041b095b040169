// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates and decodes data files against embedded CUE
// schemas. It backs both package manifests (JSON, which CUE reads natively)
// and the modman config file (CUE).
//
// The flow is always the same: compile the schema, compile the data, unify the
// data with a schema definition, validate, and decode into a Go value.
//
//	//go:embed manifest_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Manifest](schema, data, "#PackageManifest",
//	    cueutil.WithFilename(path))
package cueutil
