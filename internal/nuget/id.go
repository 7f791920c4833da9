package nuget

import (
	"fmt"
	"regexp"
)

// MaxIDLength is the longest package id nuget.org accepts
const MaxIDLength = 100

// Dot and dash separate word runs; they may not lead, trail or repeat.
var idPattern = regexp.MustCompile(`^\w+([.-]\w+)*$`)

// ValidateID checks a package id against NuGet's id rules. Valid ids
// are safe to use as a single path segment.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("package id is empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("package id %q is longer than %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("invalid package id %q", id)
	}
	return nil
}
