package generator

import (
	"context"

	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/nuget"
)

// Package is one package version ready to be published
type Package struct {
	Properties *nuget.EntryProperties

	// Filename is the source .nupkg, empty for bare specifications and
	// for packages reloaded from an existing output directory
	Filename string

	// SHA512 is the hex digest of Filename, used to skip redundant copies
	SHA512 string
}

// Generator interface for properties document generators
type Generator interface {
	// Generate writes the documents for the provided packages
	Generate(ctx context.Context, config *models.FeedConfig, packages []Package) error

	// ValidatePackages checks if packages can be published together
	ValidatePackages(packages []Package) error
}
