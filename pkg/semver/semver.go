// SPDX-License-Identifier: MPL-2.0

// Package semver implements the version and range syntax most hosts use in
// package manifests, and exposes Compatible as a drop-in compatibility
// predicate for modpkg.Host.
//
// Version ordering follows Semantic Versioning 2.0.0 via golang.org/x/mod/semver;
// the leading "v" is optional. A range is one or more comparator sets joined
// by "||"; a set is one or more space-separated comparators that must all
// match:
//
//	1.2.3          exact
//	^1.2.3         >=1.2.3 <2.0.0   (^0.2.3 := >=0.2.3 <0.3.0)
//	~1.2.3         >=1.2.3 <1.3.0
//	>=1.0.0 <2.0.0
//	^1.0 || ^2.0
//	*              any version
package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// ErrInvalidVersion is the sentinel error for unparseable versions and ranges.
var ErrInvalidVersion = errors.New("invalid version")

// operators is ordered so that two-character operators are tried first.
var operators = []string{">=", "<=", "^", "~", ">", "<", "="}

type (
	// Version is a parsed semantic version. Missing minor and patch parts are
	// zero.
	Version struct {
		Major      int
		Minor      int
		Patch      int
		Prerelease string
		Original   string

		// canonical is the "vMAJOR.MINOR.PATCH[-PRERELEASE]" form understood
		// by x/mod/semver.
		canonical string
	}

	// Comparator is a single operator/version pair.
	Comparator struct {
		// Op is one of =, ^, ~, >, >=, <, <=.
		Op      string
		Version *Version
	}

	// Range is a parsed range: the outer slice is OR, the inner slices are AND.
	// An empty comparator set matches every version.
	Range struct {
		sets     [][]Comparator
		Original string
	}
)

// ParseVersion parses "1", "1.2", "1.2.3", "v1.2.3-beta.1+build.5".
func ParseVersion(s string) (*Version, error) {
	s = strings.TrimSpace(s)
	tagged := s
	if !strings.HasPrefix(tagged, "v") {
		tagged = "v" + tagged
	}
	if !semver.IsValid(tagged) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	canonical := semver.Canonical(tagged)
	prerelease := semver.Prerelease(canonical)
	core := strings.TrimSuffix(strings.TrimPrefix(canonical, "v"), prerelease)

	parts := strings.Split(core, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidVersion, s, err)
		}
		nums[i] = n
	}

	return &Version{
		Major:      nums[0],
		Minor:      nums[1],
		Patch:      nums[2],
		Prerelease: strings.TrimPrefix(prerelease, "-"),
		Original:   s,
		canonical:  canonical,
	}, nil
}

// String returns the version as originally written.
func (v *Version) String() string {
	return v.Original
}

// Compare returns -1, 0 or 1 by semantic version precedence. Build metadata
// is ignored.
func (v *Version) Compare(other *Version) int {
	return semver.Compare(v.canonical, other.canonical)
}

// Compare orders two version strings like (*Version).Compare. An invalid
// version sorts before every valid one, and two invalid versions are equal.
func Compare(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return va.Compare(vb)
}

// ParseComparator parses a single comparator such as "^1.2" or ">= 2.0.0".
// A bare version means "=".
func ParseComparator(s string) (Comparator, error) {
	s = strings.TrimSpace(s)

	op := "="
	for _, candidate := range operators {
		if rest, ok := strings.CutPrefix(s, candidate); ok {
			op, s = candidate, strings.TrimSpace(rest)
			break
		}
	}

	v, err := ParseVersion(s)
	if err != nil {
		return Comparator{}, fmt.Errorf("%w: constraint %q", ErrInvalidVersion, s)
	}
	return Comparator{Op: op, Version: v}, nil
}

// Matches reports whether v satisfies the comparator.
func (c Comparator) Matches(v *Version) bool {
	switch c.Op {
	case "=":
		return v.Compare(c.Version) == 0
	case "^":
		// ^1.2.3 := >=1.2.3 <2.0.0, ^0.2.3 := >=0.2.3 <0.3.0, ^0.0.3 := >=0.0.3 <0.0.4
		if v.Compare(c.Version) < 0 {
			return false
		}
		if c.Version.Major != 0 {
			return v.Major == c.Version.Major
		}
		if c.Version.Minor != 0 {
			return v.Major == 0 && v.Minor == c.Version.Minor
		}
		return v.Major == 0 && v.Minor == 0 && v.Patch == c.Version.Patch
	case "~":
		if v.Compare(c.Version) < 0 {
			return false
		}
		return v.Major == c.Version.Major && v.Minor == c.Version.Minor
	case ">":
		return v.Compare(c.Version) > 0
	case ">=":
		return v.Compare(c.Version) >= 0
	case "<":
		return v.Compare(c.Version) < 0
	case "<=":
		return v.Compare(c.Version) <= 0
	default:
		return false
	}
}

// ParseRange parses a full range expression (see package documentation).
func ParseRange(s string) (*Range, error) {
	r := &Range{Original: s}
	for _, alt := range strings.Split(s, "||") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, fmt.Errorf("%w: empty alternative in %q", ErrInvalidVersion, s)
		}
		if alt == "*" || alt == "x" {
			r.sets = append(r.sets, nil)
			continue
		}

		var set []Comparator
		for _, tok := range joinOperators(strings.Fields(alt)) {
			c, err := ParseComparator(tok)
			if err != nil {
				return nil, err
			}
			set = append(set, c)
		}
		r.sets = append(r.sets, set)
	}
	return r, nil
}

// joinOperators glues a dangling operator to the version after it, so
// ">= 1.0.0" tokenizes like ">=1.0.0".
func joinOperators(fields []string) []string {
	out := make([]string, 0, len(fields))
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if isOperator(f) && i+1 < len(fields) {
			f += fields[i+1]
			i++
		}
		out = append(out, f)
	}
	return out
}

func isOperator(s string) bool {
	for _, op := range operators {
		if s == op {
			return true
		}
	}
	return false
}

// Matches reports whether v satisfies any comparator set of the range.
func (r *Range) Matches(v *Version) bool {
	for _, set := range r.sets {
		ok := true
		for _, c := range set {
			if !c.Matches(v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// String returns the range as originally written.
func (r *Range) String() string { return r.Original }

// Compatible reports whether hostVersion satisfies the supported range. Any
// parse failure, including an empty supported range, counts as incompatible.
// Its signature matches modpkg.CompatibilityPredicate.
func Compatible(hostVersion, supported string) bool {
	v, err := ParseVersion(hostVersion)
	if err != nil {
		return false
	}
	r, err := ParseRange(supported)
	if err != nil {
		return false
	}
	return r.Matches(v)
}

// IsValidVersion reports whether s parses as a version.
func IsValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// IsValidRange reports whether s parses as a range.
func IsValidRange(s string) bool {
	_, err := ParseRange(s)
	return err == nil
}
