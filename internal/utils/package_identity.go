package utils

import (
	"strings"

	"github.com/ralt/nugetprops/internal/nuget"
)

// PackageIdentity returns the feed key of a package version. NuGet ids
// and versions compare case-insensitively.
func PackageIdentity(id string, version *nuget.Version) string {
	return strings.ToLower(id) + ":" + strings.ToLower(version.String())
}

// DetectConflicts returns the records of newEntries whose identity is
// already present in existing
func DetectConflicts(existing, newEntries []*nuget.EntryProperties) []*nuget.EntryProperties {
	existingMap := make(map[string]bool, len(existing))
	for _, p := range existing {
		existingMap[PackageIdentity(p.ID, p.Version)] = true
	}

	var conflicts []*nuget.EntryProperties
	for _, p := range newEntries {
		if existingMap[PackageIdentity(p.ID, p.Version)] {
			conflicts = append(conflicts, p)
		}
	}
	return conflicts
}
