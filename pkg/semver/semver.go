// Package semver implements the MAJOR.MINOR.PATCH version arithmetic used
// for codebook generations. It is deliberately strict: anything that does
// not match the three-component form is rejected so that a corrupted
// persisted version is surfaced instead of silently reset.
package semver

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/pkg/errors"
)

var versionRe = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Version is a parsed MAJOR.MINOR.PATCH version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Initial is the version assigned to the first generation.
func Initial() Version {
	return Version{Major: 1, Minor: 0, Patch: 0}
}

// Parse parses a strict MAJOR.MINOR.PATCH string.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, errors.Errorf("malformed semantic version %q", s)
	}

	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// IsValid reports whether s parses as a strict semantic version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump identifies which component the next generation increments.
type Bump int

const (
	// BumpPatch increments the patch component. This is the default.
	BumpPatch Bump = iota
	// BumpMinor increments the minor component and zeroes the patch.
	BumpMinor
	// BumpMajor increments the major component and zeroes minor and patch.
	BumpMajor
)

// ParseBump parses a bump directive from its flag representation.
func ParseBump(s string) (Bump, error) {
	switch s {
	case "", "patch":
		return BumpPatch, nil
	case "minor":
		return BumpMinor, nil
	case "major":
		return BumpMajor, nil
	default:
		return BumpPatch, errors.Errorf("invalid bump %q, must be one of: patch, minor, major", s)
	}
}

// Next returns the version following v for the given bump.
func (v Version) Next(b Bump) Version {
	switch b {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
