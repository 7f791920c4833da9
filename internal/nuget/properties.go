// Package nuget holds the package metadata record carried by NuGet v2
// feed entries and its conversion to and from typed OData elements.
package nuget

import (
	"strings"
	"time"
)

// Values stored when a counter or rating setter receives no value
const (
	UnknownCount  int32   = -1
	UnknownRating float64 = -1
)

// EntryProperties is the metadata of one package version as published in
// the m:properties element of a feed entry. It is a single owner value;
// share copies, not pointers, between goroutines.
type EntryProperties struct {
	// ID is carried by the enclosing feed entry and is never part of the
	// serialized properties.
	ID string `yaml:"id"`

	Version *Version `yaml:"version"`

	Title            string `yaml:"title"`
	IconURL          string `yaml:"iconUrl"`
	LicenseURL       string `yaml:"licenseUrl"`
	ProjectURL       string `yaml:"projectUrl"`
	ProjectSourceURL string `yaml:"projectSourceUrl"`
	PackageSourceURL string `yaml:"packageSourceUrl"`
	DocsURL          string `yaml:"docsUrl"`
	MailingListURL   string `yaml:"mailingListUrl"`
	BugTrackerURL    string `yaml:"bugTrackerUrl"`
	ReportAbuseURL   string `yaml:"reportAbuseUrl"`

	DownloadCount        int32   `yaml:"downloadCount"`
	VersionDownloadCount int32   `yaml:"versionDownloadCount"`
	RatingsCount         int32   `yaml:"ratingsCount"`
	VersionRatingsCount  int32   `yaml:"versionRatingsCount"`
	Rating               float64 `yaml:"rating"`
	VersionRating        float64 `yaml:"versionRating"`

	RequireLicenseAcceptance bool `yaml:"requireLicenseAcceptance"`

	Description  string `yaml:"description"`
	ReleaseNotes string `yaml:"releaseNotes"`
	Language     string `yaml:"language"`

	Published time.Time `yaml:"published"`
	Price     *float64  `yaml:"price"`

	// Dependencies is the raw feed form; see DependenciesList.
	Dependencies string `yaml:"dependencies"`

	PackageHash string `yaml:"packageHash"`
	PackageSize *int64 `yaml:"packageSize"`

	ExternalPackageURI string   `yaml:"externalPackageUri"`
	Categories         string   `yaml:"categories"`
	Copyright          string   `yaml:"copyright"`
	PackageType        string   `yaml:"packageType"`
	Tags               []string `yaml:"tags"`
	IsLatestVersion    bool     `yaml:"isLatestVersion"`
	Summary            string   `yaml:"summary"`
}

// NewEntryProperties returns a record holding the documented defaults
func NewEntryProperties() *EntryProperties {
	return &EntryProperties{
		DownloadCount:        UnknownCount,
		VersionDownloadCount: UnknownCount,
		RatingsCount:         0,
		VersionRatingsCount:  UnknownCount,
		Rating:               UnknownRating,
		VersionRating:        UnknownRating,
		Tags:                 []string{},
	}
}

// SetDownloadCount stores n, or -1 when n is nil
func (p *EntryProperties) SetDownloadCount(n *int32) {
	p.DownloadCount = int32OrDefault(n, UnknownCount)
}

// SetVersionDownloadCount stores n, or -1 when n is nil
func (p *EntryProperties) SetVersionDownloadCount(n *int32) {
	p.VersionDownloadCount = int32OrDefault(n, UnknownCount)
}

// SetRatingsCount stores n, or 0 when n is nil
func (p *EntryProperties) SetRatingsCount(n *int32) {
	p.RatingsCount = int32OrDefault(n, 0)
}

// SetVersionRatingsCount stores n, or -1 when n is nil
func (p *EntryProperties) SetVersionRatingsCount(n *int32) {
	p.VersionRatingsCount = int32OrDefault(n, UnknownCount)
}

// SetRating stores r, or -1.0 when r is nil
func (p *EntryProperties) SetRating(r *float64) {
	p.Rating = float64OrDefault(r, UnknownRating)
}

// SetVersionRating stores r, or -1.0 when r is nil
func (p *EntryProperties) SetVersionRating(r *float64) {
	p.VersionRating = float64OrDefault(r, UnknownRating)
}

// SetRequireLicenseAcceptance stores b, or false when b is nil
func (p *EntryProperties) SetRequireLicenseAcceptance(b *bool) {
	p.RequireLicenseAcceptance = b != nil && *b
}

// SetIsLatestVersion stores b, or false when b is nil
func (p *EntryProperties) SetIsLatestVersion(b *bool) {
	p.IsLatestVersion = b != nil && *b
}

// SetTags replaces the tag list; nil becomes an empty list
func (p *EntryProperties) SetTags(tags []string) {
	p.Tags = append([]string{}, tags...)
}

// SetDependenciesList renders deps into the feed form, joining them with
// a comma. Nil entries are skipped; an empty list renders as "".
func (p *EntryProperties) SetDependenciesList(deps []*Dependency) {
	parts := make([]string, 0, len(deps))
	for _, d := range deps {
		if d == nil {
			continue
		}
		parts = append(parts, d.String())
	}
	p.Dependencies = strings.Join(parts, ",")
}

// DependenciesList parses the stored dependency string. Tokens are split
// on spaces and pipes, the separators used by older feeds, and tokens that
// do not parse into a usable dependency are dropped. No other
// normalization is applied, so a list written by SetDependenciesList with
// more than one entry does not read back.
func (p *EntryProperties) DependenciesList() []*Dependency {
	list := []*Dependency{}
	if p.Dependencies == "" {
		return list
	}
	for _, token := range strings.FieldsFunc(p.Dependencies, isDependencySeparator) {
		d, err := ParseDependency(token)
		if err != nil || d == nil {
			continue
		}
		list = append(list, d)
	}
	return list
}

func isDependencySeparator(r rune) bool {
	return r == ' ' || r == '|'
}

// SetNuspec copies the package specification into the record. Absent text
// becomes "", the price becomes 0 and the fields a specification cannot
// express are reset to "". ID is left to the caller.
func (p *EntryProperties) SetNuspec(spec *Nuspec) {
	price := 0.0

	p.Version = spec.Version
	p.Title = spec.Title
	p.IconURL = spec.IconURL
	p.LicenseURL = spec.LicenseURL
	p.ProjectURL = spec.ProjectURL
	p.ProjectSourceURL = spec.ProjectSourceURL
	p.PackageSourceURL = spec.PackageSourceURL
	p.DocsURL = spec.DocsURL
	p.MailingListURL = spec.MailingListURL
	p.BugTrackerURL = spec.BugTrackerURL
	p.ReportAbuseURL = ""
	p.RequireLicenseAcceptance = spec.RequireLicenseAcceptance
	p.Description = spec.Description
	p.ReleaseNotes = ""
	p.Language = ""
	p.Price = &price
	p.SetDependenciesList(spec.Dependencies)
	p.ExternalPackageURI = ""
	p.Categories = ""
	p.Copyright = spec.Copyright
	p.PackageType = ""
	p.SetTags(spec.Tags)
	p.Summary = spec.Summary
}

func int32OrDefault(n *int32, def int32) int32 {
	if n == nil {
		return def
	}
	return *n
}

func float64OrDefault(f *float64, def float64) float64 {
	if f == nil {
		return def
	}
	return *f
}
