package entities

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a semantic version triple. It orders lexicographically by
// (major, minor, patch) and round-trips through its "X.Y.Z" display form.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// ParseVersion parses a strict "X.Y.Z" version string.
func ParseVersion(s string) (Version, error) {
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return Version{Major: v.Major(), Minor: v.Minor(), Patch: v.Patch()}, nil
}

// MustParseVersion is ParseVersion that panics on error. For fixtures and
// compile-time constants only.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is less than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpUint64(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint64(v.Minor, o.Minor)
	default:
		return cmpUint64(v.Patch, o.Patch)
	}
}

// Less reports whether v orders before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// semver converts to the library representation for constraint matching.
func (v Version) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, "", "")
}

// MarshalText implements encoding.TextMarshaler so versions serialize as
// "X.Y.Z" in JSON object keys and values alike.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// VersionReq is a semantic-version constraint: caret, tilde, comparison
// operators, hyphen ranges and the "*" wildcard.
type VersionReq struct {
	constraints *semver.Constraints
	raw         string
}

// ParseVersionReq parses a version constraint string.
func ParseVersionReq(s string) (VersionReq, error) {
	c, err := semver.NewConstraint(s)
	if err != nil {
		return VersionReq{}, fmt.Errorf("invalid version requirement %q: %w", s, err)
	}
	return VersionReq{constraints: c, raw: s}, nil
}

// AnyVersion matches every released version.
func AnyVersion() VersionReq {
	req, err := ParseVersionReq("*")
	if err != nil {
		panic(err)
	}
	return req
}

// Matches reports whether the requirement admits v.
func (r VersionReq) Matches(v Version) bool {
	if r.constraints == nil {
		return false
	}
	return r.constraints.Check(v.semver())
}

func (r VersionReq) String() string {
	return r.raw
}

// MarshalText implements encoding.TextMarshaler.
func (r VersionReq) MarshalText() ([]byte, error) {
	return []byte(r.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *VersionReq) UnmarshalText(text []byte) error {
	parsed, err := ParseVersionReq(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
