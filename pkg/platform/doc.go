// SPDX-License-Identifier: MPL-2.0

// Package platform holds OS name constants and the portability checks modman
// applies to package directory names, which are shared between players on
// different operating systems.
package platform
