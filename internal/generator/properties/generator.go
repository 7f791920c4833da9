package properties

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/nugetprops/internal/generator"
	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/signer"
	"github.com/ralt/nugetprops/internal/utils"
	"github.com/sirupsen/logrus"
)

// Output layout: <OutputDir>/<id>/<version>/{DocumentName,<id>.<version>.nupkg}
const (
	DocumentName  = "properties.xml"
	PublicKeyName = "KEY.asc"
)

// Generator writes one m:properties document per package version
type Generator struct {
	signer signer.Signer
}

// NewGenerator creates a new properties generator; s may be nil
func NewGenerator(s signer.Signer) *Generator {
	return &Generator{
		signer: s,
	}
}

var _ generator.Generator = (*Generator)(nil)

// Generate writes the documents, copies package archives next to them and
// signs the documents when a signer is configured
func (g *Generator) Generate(ctx context.Context, config *models.FeedConfig, packages []generator.Package) error {
	logrus.Info("Generating properties documents...")

	if config.MarkLatest {
		markLatest(packages)
	}

	for i := range packages {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := g.generatePackage(config, &packages[i]); err != nil {
			p := packages[i].Properties
			return fmt.Errorf("failed to generate %s %s: %w", p.ID, p.Version, err)
		}
	}

	if g.signer != nil {
		key, err := g.signer.GetPublicKey()
		if err != nil {
			return fmt.Errorf("failed to export public key: %w", err)
		}
		if err := utils.WriteFile(filepath.Join(config.OutputDir, PublicKeyName), key, 0644); err != nil {
			return fmt.Errorf("failed to write public key: %w", err)
		}
		logrus.Info("Documents signed successfully")
	}

	logrus.Infof("Properties documents generated successfully (%d packages)", len(packages))
	return nil
}

func (g *Generator) generatePackage(config *models.FeedConfig, pkg *generator.Package) error {
	p := pkg.Properties
	dir := packageDir(config.OutputDir, p)
	if err := utils.EnsureDir(dir); err != nil {
		return err
	}

	if pkg.Filename != "" {
		dst := filepath.Join(dir, p.ID+"."+p.Version.String()+".nupkg")
		needsCopy, err := utils.ShouldCopyPackage(pkg.Filename, dst, pkg.SHA512)
		if err != nil {
			return err
		}
		if needsCopy {
			if err := utils.CopyFile(pkg.Filename, dst); err != nil {
				return fmt.Errorf("failed to copy %s: %w", pkg.Filename, err)
			}
		}
	}

	doc, err := p.Marshal()
	if err != nil {
		return models.NewCodecError(models.ErrConstruction, p.ID, err)
	}

	docPath := filepath.Join(dir, DocumentName)
	if err := utils.WriteFile(docPath, doc, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", DocumentName, err)
	}

	if config.Compression != utils.CompressionNone {
		ext, err := utils.CompressionExt(config.Compression)
		if err != nil {
			return err
		}
		compressed, err := utils.Compress(doc, config.Compression)
		if err != nil {
			return fmt.Errorf("failed to compress %s: %w", DocumentName, err)
		}
		if err := utils.WriteFile(docPath+ext, compressed, 0644); err != nil {
			return err
		}
	}

	if g.signer != nil {
		signature, err := g.signer.SignDetached(doc)
		if err != nil {
			return models.NewCodecError(models.ErrSigning, p.ID, err)
		}
		if err := utils.WriteFile(docPath+".asc", signature, 0644); err != nil {
			return err
		}
	}

	logrus.Debugf("Wrote %s", docPath)
	return nil
}

// ValidatePackages checks that every package has an id and a version and
// that no identity appears twice
func (g *Generator) ValidatePackages(packages []generator.Package) error {
	seen := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		p := pkg.Properties
		if p == nil || p.ID == "" {
			return fmt.Errorf("package missing id: %s", pkg.Filename)
		}
		if err := nuget.ValidateID(p.ID); err != nil {
			return err
		}
		if p.Version == nil {
			return fmt.Errorf("package %s missing version", p.ID)
		}
		key := utils.PackageIdentity(p.ID, p.Version)
		if seen[key] {
			return fmt.Errorf("duplicate package %s %s", p.ID, p.Version)
		}
		seen[key] = true
	}
	return nil
}

// ParseExistingMetadata reloads the documents of a previous run. The id
// is taken from the directory name since documents do not carry it.
func (g *Generator) ParseExistingMetadata(config *models.FeedConfig) ([]*nuget.EntryProperties, error) {
	var entries []*nuget.EntryProperties

	if _, err := os.Stat(config.OutputDir); os.IsNotExist(err) {
		return nil, nil
	}

	err := filepath.WalkDir(config.OutputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != DocumentName {
			return nil
		}

		rel, err := filepath.Rel(config.OutputDir, path)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			logrus.Warnf("Ignoring document outside the feed layout: %s", path)
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		p, err := nuget.ParseEntryProperties(f)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		p.ID = parts[0]
		entries = append(entries, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.Infof("Loaded %d existing documents from %s", len(entries), config.OutputDir)
	return entries, nil
}

func packageDir(outputDir string, p *nuget.EntryProperties) string {
	return filepath.Join(outputDir, p.ID, p.Version.String())
}

// markLatest flags the highest version of every id, ids compared without
// regard to case
func markLatest(packages []generator.Package) {
	latest := make(map[string]*nuget.EntryProperties)
	for _, pkg := range packages {
		p := pkg.Properties
		key := strings.ToLower(p.ID)
		if cur, ok := latest[key]; !ok || p.Version.Compare(cur.Version) > 0 {
			latest[key] = p
		}
	}
	for _, pkg := range packages {
		p := pkg.Properties
		p.IsLatestVersion = latest[strings.ToLower(p.ID)] == p
	}
}
