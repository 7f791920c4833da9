package nuget

import (
	"fmt"
	"strings"
)

// Dependency is a single id:range[:framework] token of the feed
// dependency list.
type Dependency struct {
	ID              string
	VersionRange    string
	TargetFramework string
}

// String renders the dependency in feed form
func (d *Dependency) String() string {
	if d.TargetFramework != "" {
		return d.ID + ":" + d.VersionRange + ":" + d.TargetFramework
	}
	return d.ID + ":" + d.VersionRange
}

// ParseDependency parses one dependency token. It returns nil without an
// error when the token does not name a package (empty token, or an empty
// id as used by framework-only entries such as "::net45").
func ParseDependency(text string) (*Dependency, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	parts := strings.SplitN(text, ":", 3)
	d := &Dependency{ID: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		d.VersionRange = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		d.TargetFramework = strings.TrimSpace(parts[2])
	}
	if d.ID == "" {
		return nil, nil
	}
	if err := ValidateVersionRange(d.VersionRange); err != nil {
		return nil, fmt.Errorf("dependency %q: %w", d.ID, err)
	}
	return d, nil
}

// ValidateVersionRange checks NuGet version range notation: empty (any
// version), a bare minimum version, or an interval such as "[1.0,2.0)",
// "(,1.0]" or "[1.0]".
func ValidateVersionRange(r string) error {
	if r == "" {
		return nil
	}
	first, last := r[0], r[len(r)-1]
	if first != '[' && first != '(' {
		_, err := ParseVersion(r)
		return err
	}
	if len(r) < 2 || (last != ']' && last != ')') {
		return fmt.Errorf("unterminated version range %q", r)
	}

	bounds := strings.Split(r[1:len(r)-1], ",")
	switch len(bounds) {
	case 1:
		// exact match needs both ends inclusive
		if first != '[' || last != ']' || strings.TrimSpace(bounds[0]) == "" {
			return fmt.Errorf("invalid exact version range %q", r)
		}
	case 2:
		if strings.TrimSpace(bounds[0]) == "" && strings.TrimSpace(bounds[1]) == "" {
			return fmt.Errorf("version range %q has no bounds", r)
		}
	default:
		return fmt.Errorf("too many bounds in version range %q", r)
	}
	for _, b := range bounds {
		b = strings.TrimSpace(b)
		if b == "" {
			continue
		}
		if _, err := ParseVersion(b); err != nil {
			return err
		}
	}
	return nil
}
