package cli

import (
	"context"
	"fmt"

	"github.com/ralt/nugetprops/internal/generator"
	"github.com/ralt/nugetprops/internal/generator/properties"
	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/scanner"
	"github.com/ralt/nugetprops/internal/signer"
	"github.com/ralt/nugetprops/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var config models.FeedConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate properties documents",
		Long: `Scans the input directory for .nupkg and .nuspec files and writes
one m:properties document per package version, with optional
compressed copies and detached signatures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Info("Starting document generation...")
			logrus.Debugf("Configuration: %+v", config)

			return runGeneration(cmd.Context(), &config)
		},
	}

	// Input/Output flags
	cmd.Flags().StringVarP(&config.InputDir, "input-dir", "i", ".", "Input directory to scan")
	cmd.Flags().StringVarP(&config.OutputDir, "output-dir", "o", "./feed", "Output directory")
	cmd.Flags().StringVarP(&config.Compression, "compress", "c", "", "Also write compressed documents (gzip, xz, zstd)")

	// GPG signing flags
	cmd.Flags().StringVarP(&config.GPGKeyPath, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVarP(&config.GPGPassphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	cmd.Flags().BoolVar(&config.Incremental, "incremental", false, "Keep documents already present in the output directory")
	cmd.Flags().BoolVar(&config.MarkLatest, "mark-latest", true, "Flag the highest version of each package as latest")

	return cmd
}

func validateConfig(config *models.FeedConfig) error {
	if config.InputDir == "" {
		return &models.CodecError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("input-dir is required"),
		}
	}

	if config.OutputDir == "" {
		return &models.CodecError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output-dir is required"),
		}
	}

	if _, err := utils.CompressionExt(config.Compression); err != nil {
		return &models.CodecError{
			Type: models.ErrInvalidConfig,
			Err:  err,
		}
	}

	return nil
}

func runGeneration(ctx context.Context, config *models.FeedConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Scan for packages
	logrus.Infof("Scanning directory: %s", config.InputDir)
	sc := scanner.NewFileSystemScanner(config.OutputDir)
	scannedPackages, err := sc.Scan(ctx, config.InputDir)
	if err != nil {
		return &models.CodecError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to scan directory: %w", err),
		}
	}

	if len(scannedPackages) == 0 {
		logrus.Warn("No packages found in input directory")
		return nil
	}

	// Step 2: Import specifications
	var packages []generator.Package
	for _, scanned := range scannedPackages {
		logrus.Debugf("Parsing %s: %s", scanned.Type, scanned.Path)

		pkg, err := properties.ParsePackage(scanned)
		if err != nil {
			logrus.Warnf("Failed to parse %s: %v", scanned.Path, err)
			continue
		}
		packages = append(packages, *pkg)
	}

	// Step 3: Initialize signer
	var gpgSigner signer.Signer
	if config.GPGKeyPath != "" {
		gpgSigner, err = signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.CodecError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		logrus.Info("GPG signer initialized")
	}

	gen := properties.NewGenerator(gpgSigner)

	// Step 4: Merge with a previous run
	if config.Incremental {
		packages, err = mergeExisting(gen, config, packages)
		if err != nil {
			return &models.CodecError{
				Type: models.ErrMetadataGen,
				Err:  fmt.Errorf("failed to load existing documents: %w", err),
			}
		}
	}

	if err := gen.ValidatePackages(packages); err != nil {
		return &models.CodecError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("package validation failed: %w", err),
		}
	}

	// Step 5: Write documents
	if err := gen.Generate(ctx, config, packages); err != nil {
		return &models.CodecError{
			Type: models.ErrMetadataGen,
			Err:  fmt.Errorf("failed to generate documents: %w", err),
		}
	}

	logrus.Info("Document generation completed successfully!")
	logrus.Infof("Output directory: %s", config.OutputDir)

	return nil
}

// mergeExisting keeps every document already published and drops new
// packages that would overwrite one of them
func mergeExisting(gen *properties.Generator, config *models.FeedConfig, packages []generator.Package) ([]generator.Package, error) {
	existing, err := gen.ParseExistingMetadata(config)
	if err != nil {
		return nil, err
	}

	fresh := make([]*nuget.EntryProperties, len(packages))
	for i, pkg := range packages {
		fresh[i] = pkg.Properties
	}

	skip := make(map[*nuget.EntryProperties]bool)
	for _, c := range utils.DetectConflicts(existing, fresh) {
		logrus.Warnf("Skipping %s %s: already published", c.ID, c.Version)
		skip[c] = true
	}

	merged := make([]generator.Package, 0, len(existing)+len(packages))
	for _, p := range existing {
		merged = append(merged, generator.Package{Properties: p})
	}
	for _, pkg := range packages {
		if !skip[pkg.Properties] {
			merged = append(merged, pkg)
		}
	}
	return merged, nil
}
