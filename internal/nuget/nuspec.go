package nuget

import (
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Nuspec is the package specification a record can be imported from
type Nuspec struct {
	ID                       string
	Version                  *Version
	Title                    string
	Authors                  string
	Owners                   string
	IconURL                  string
	LicenseURL               string
	ProjectURL               string
	ProjectSourceURL         string
	PackageSourceURL         string
	DocsURL                  string
	MailingListURL           string
	BugTrackerURL            string
	RequireLicenseAcceptance bool
	Description              string
	Summary                  string
	Copyright                string
	Tags                     []string
	Dependencies             []*Dependency
}

// XML shape of a .nuspec document. Tags carry no namespace so every
// schema revision of the nuspec namespace matches.
type nuspecDocument struct {
	XMLName  xml.Name       `xml:"package"`
	Metadata nuspecMetadata `xml:"metadata"`
}

type nuspecMetadata struct {
	ID                       string             `xml:"id"`
	Version                  string             `xml:"version"`
	Title                    string             `xml:"title"`
	Authors                  string             `xml:"authors"`
	Owners                   string             `xml:"owners"`
	IconURL                  string             `xml:"iconUrl"`
	LicenseURL               string             `xml:"licenseUrl"`
	ProjectURL               string             `xml:"projectUrl"`
	ProjectSourceURL         string             `xml:"projectSourceUrl"`
	PackageSourceURL         string             `xml:"packageSourceUrl"`
	DocsURL                  string             `xml:"docsUrl"`
	MailingListURL           string             `xml:"mailingListUrl"`
	BugTrackerURL            string             `xml:"bugTrackerUrl"`
	RequireLicenseAcceptance string             `xml:"requireLicenseAcceptance"`
	Description              string             `xml:"description"`
	Summary                  string             `xml:"summary"`
	Copyright                string             `xml:"copyright"`
	Tags                     string             `xml:"tags"`
	Dependencies             nuspecDependencies `xml:"dependencies"`
}

type nuspecDependencies struct {
	Groups       []nuspecGroup      `xml:"group"`
	Dependencies []nuspecDependency `xml:"dependency"`
}

type nuspecGroup struct {
	TargetFramework string             `xml:"targetFramework,attr"`
	Dependencies    []nuspecDependency `xml:"dependency"`
}

type nuspecDependency struct {
	ID      string `xml:"id,attr"`
	Version string `xml:"version,attr"`
}

// ParseNuspec decodes a .nuspec document
func ParseNuspec(r io.Reader) (*Nuspec, error) {
	var doc nuspecDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode nuspec: %w", err)
	}
	m := doc.Metadata

	if strings.TrimSpace(m.ID) == "" {
		return nil, fmt.Errorf("nuspec has no package id")
	}
	if err := ValidateID(strings.TrimSpace(m.ID)); err != nil {
		return nil, fmt.Errorf("nuspec: %w", err)
	}
	version, err := ParseVersion(m.Version)
	if err != nil {
		return nil, fmt.Errorf("nuspec %s: %w", m.ID, err)
	}

	spec := &Nuspec{
		ID:                       strings.TrimSpace(m.ID),
		Version:                  version,
		Title:                    strings.TrimSpace(m.Title),
		Authors:                  strings.TrimSpace(m.Authors),
		Owners:                   strings.TrimSpace(m.Owners),
		IconURL:                  strings.TrimSpace(m.IconURL),
		LicenseURL:               strings.TrimSpace(m.LicenseURL),
		ProjectURL:               strings.TrimSpace(m.ProjectURL),
		ProjectSourceURL:         strings.TrimSpace(m.ProjectSourceURL),
		PackageSourceURL:         strings.TrimSpace(m.PackageSourceURL),
		DocsURL:                  strings.TrimSpace(m.DocsURL),
		MailingListURL:           strings.TrimSpace(m.MailingListURL),
		BugTrackerURL:            strings.TrimSpace(m.BugTrackerURL),
		RequireLicenseAcceptance: strings.EqualFold(strings.TrimSpace(m.RequireLicenseAcceptance), "true"),
		Description:              m.Description,
		Summary:                  m.Summary,
		Copyright:                m.Copyright,
		Tags:                     strings.Fields(m.Tags),
	}

	for _, d := range m.Dependencies.Dependencies {
		spec.Dependencies = append(spec.Dependencies, &Dependency{ID: d.ID, VersionRange: d.Version})
	}
	for _, g := range m.Dependencies.Groups {
		for _, d := range g.Dependencies {
			spec.Dependencies = append(spec.Dependencies, &Dependency{
				ID:              d.ID,
				VersionRange:    d.Version,
				TargetFramework: g.TargetFramework,
			})
		}
	}

	return spec, nil
}

// ReadNupkg extracts and parses the .nuspec stored at the root of a
// .nupkg archive
func ReadNupkg(archivePath string) (*Nuspec, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if strings.Contains(f.Name, "/") || !strings.EqualFold(path.Ext(f.Name), ".nuspec") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		spec, err := ParseNuspec(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		return spec, nil
	}
	return nil, fmt.Errorf("no .nuspec found in %s", archivePath)
}
