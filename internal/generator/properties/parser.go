package properties

import (
	"fmt"
	"os"
	"time"

	"github.com/ralt/nugetprops/internal/generator"
	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/scanner"
	"github.com/ralt/nugetprops/internal/utils"
)

// ParsePackage builds the publishable record for a scanned file. Package
// archives also get their hash and size; bare specifications carry
// neither.
func ParsePackage(scanned scanner.ScannedPackage) (*generator.Package, error) {
	info, err := os.Stat(scanned.Path)
	if err != nil {
		return nil, err
	}

	var spec *nuget.Nuspec
	pkg := &generator.Package{}
	props := nuget.NewEntryProperties()

	switch scanned.Type {
	case scanner.TypeNupkg:
		checksums, err := utils.CalculateChecksums(scanned.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate checksums: %w", err)
		}
		if spec, err = nuget.ReadNupkg(scanned.Path); err != nil {
			return nil, err
		}
		props.SetNuspec(spec)
		size := checksums.Size
		props.PackageHash = checksums.SHA512Base64
		props.PackageSize = &size
		pkg.Filename = scanned.Path
		pkg.SHA512 = checksums.SHA512
	case scanner.TypeNuspec:
		f, err := os.Open(scanned.Path)
		if err != nil {
			return nil, err
		}
		spec, err = nuget.ParseNuspec(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		props.SetNuspec(spec)
	default:
		return nil, fmt.Errorf("unsupported package type %s", scanned.Type)
	}

	props.ID = spec.ID
	props.Published = info.ModTime().UTC().Truncate(time.Millisecond)
	pkg.Properties = props
	return pkg, nil
}
