package nuget

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a package version. The text it was parsed from is kept as
// its canonical form, so "1.0" stays "1.0" on the wire. Legacy four-part
// versions such as "1.2.3.4" carry the fourth part as a revision.
type Version struct {
	v        *semver.Version
	revision uint64
	original string
}

// ParseVersion parses a semantic version, failing on malformed text
func ParseVersion(text string) (*Version, error) {
	original := strings.TrimSpace(text)
	core, revision, err := splitRevision(original)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", text, err)
	}
	v, err := semver.NewVersion(core)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", text, err)
	}
	return &Version{v: v, revision: revision, original: original}, nil
}

// splitRevision removes the fourth numeric part of a legacy version,
// leaving text semver can parse. Other versions pass through unchanged.
func splitRevision(text string) (string, uint64, error) {
	end := strings.IndexAny(text, "-+")
	if end < 0 {
		end = len(text)
	}
	parts := strings.Split(text[:end], ".")
	if len(parts) != 4 {
		return text, 0, nil
	}
	revision, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("revision %q is not a number", parts[3])
	}
	return strings.Join(parts[:3], ".") + text[end:], revision, nil
}

// MustParseVersion is like ParseVersion but panics on error
func MustParseVersion(text string) *Version {
	v, err := ParseVersion(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical text form of the version
func (v *Version) String() string {
	if v == nil {
		return ""
	}
	return v.original
}

// Compare returns -1, 0 or 1 depending on whether v sorts before, equal to
// or after o. The revision ranks below patch and above prerelease labels.
func (v *Version) Compare(o *Version) int {
	a, b := v.v, o.v
	for _, pair := range [][2]uint64{
		{a.Major(), b.Major()},
		{a.Minor(), b.Minor()},
		{a.Patch(), b.Patch()},
		{v.revision, o.revision},
	} {
		switch {
		case pair[0] < pair[1]:
			return -1
		case pair[0] > pair[1]:
			return 1
		}
	}
	return a.Compare(b)
}

// Equal reports whether both versions have the same text form
func (v *Version) Equal(o *Version) bool {
	if v == nil || o == nil {
		return v == o
	}
	return v.String() == o.String()
}

// MarshalYAML renders the version as its text form
func (v *Version) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}
