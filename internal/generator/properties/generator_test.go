package properties

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/klauspost/compress/zip"
	"github.com/ralt/nugetprops/internal/generator"
	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/scanner"
	"github.com/ralt/nugetprops/internal/signer"
	"github.com/ralt/nugetprops/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nuspecXML(id, version string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<package xmlns="http://schemas.microsoft.com/packaging/2013/05/nuspec.xsd">
  <metadata>
    <id>` + id + `</id>
    <version>` + version + `</version>
    <title>` + id + ` title</title>
    <description>Test package</description>
    <tags>test sample</tags>
    <dependencies>
      <dependency id="Dep" version="1.0" />
    </dependencies>
  </metadata>
</package>`
}

func writeNupkg(t *testing.T, dir, id, version string) string {
	t.Helper()
	path := filepath.Join(dir, id+"."+version+".nupkg")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create(id + ".nuspec")
	require.NoError(t, err)
	_, err = w.Write([]byte(nuspecXML(id, version)))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func parseAll(t *testing.T, dir string) []generator.Package {
	t.Helper()
	scanned, err := scanner.NewFileSystemScanner().Scan(context.Background(), dir)
	require.NoError(t, err)

	var packages []generator.Package
	for _, s := range scanned {
		pkg, err := ParsePackage(s)
		require.NoError(t, err, s.Path)
		packages = append(packages, *pkg)
	}
	return packages
}

func readDocument(t *testing.T, path string) *nuget.EntryProperties {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	p, err := nuget.ParseEntryProperties(f)
	require.NoError(t, err)
	return p
}

func TestParsePackageNupkg(t *testing.T) {
	dir := t.TempDir()
	path := writeNupkg(t, dir, "Sample", "1.0.0")

	pkg, err := ParsePackage(scanner.ScannedPackage{Path: path, Type: scanner.TypeNupkg})
	require.NoError(t, err)

	p := pkg.Properties
	assert.Equal(t, "Sample", p.ID)
	assert.Equal(t, "1.0.0", p.Version.String())
	assert.Equal(t, "Sample title", p.Title)
	assert.Equal(t, []string{"test", "sample"}, p.Tags)
	assert.Equal(t, "Dep:1.0", p.Dependencies)
	assert.NotEmpty(t, p.PackageHash)
	require.NotNil(t, p.PackageSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), *p.PackageSize)
	assert.False(t, p.Published.IsZero())
	assert.Equal(t, path, pkg.Filename)
}

func TestParsePackageNuspec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Bare.nuspec")
	require.NoError(t, os.WriteFile(path, []byte(nuspecXML("Bare", "0.1.0")), 0644))

	pkg, err := ParsePackage(scanner.ScannedPackage{Path: path, Type: scanner.TypeNuspec})
	require.NoError(t, err)
	assert.Equal(t, "Bare", pkg.Properties.ID)
	assert.Empty(t, pkg.Properties.PackageHash)
	assert.Nil(t, pkg.Properties.PackageSize)
	assert.Empty(t, pkg.Filename)
}

func TestGenerateWritesDocuments(t *testing.T) {
	input, output := t.TempDir(), t.TempDir()
	writeNupkg(t, input, "Sample", "1.0.0")
	writeNupkg(t, input, "Sample", "1.2.0")
	writeNupkg(t, input, "Other", "3.0.0")

	config := &models.FeedConfig{
		InputDir:    input,
		OutputDir:   output,
		Compression: utils.CompressionZstd,
		MarkLatest:  true,
	}

	gen := NewGenerator(nil)
	packages := parseAll(t, input)
	require.NoError(t, gen.ValidatePackages(packages))
	require.NoError(t, gen.Generate(context.Background(), config, packages))

	older := readDocument(t, filepath.Join(output, "Sample", "1.0.0", DocumentName))
	newer := readDocument(t, filepath.Join(output, "Sample", "1.2.0", DocumentName))
	other := readDocument(t, filepath.Join(output, "Other", "3.0.0", DocumentName))
	assert.False(t, older.IsLatestVersion)
	assert.True(t, newer.IsLatestVersion)
	assert.True(t, other.IsLatestVersion)
	assert.Equal(t, "Sample title", newer.Title)

	_, err := os.Stat(filepath.Join(output, "Sample", "1.2.0", "Sample.1.2.0.nupkg"))
	assert.NoError(t, err, "package archive copied next to its document")

	raw, err := os.ReadFile(filepath.Join(output, "Sample", "1.2.0", DocumentName))
	require.NoError(t, err)
	compressed, err := os.ReadFile(filepath.Join(output, "Sample", "1.2.0", DocumentName+".zst"))
	require.NoError(t, err)
	restored, err := utils.Decompress(compressed, utils.CompressionZstd)
	require.NoError(t, err)
	assert.Equal(t, raw, restored)
}

func TestIncrementalReload(t *testing.T) {
	input, output := t.TempDir(), t.TempDir()
	writeNupkg(t, input, "Sample", "1.0.0")
	config := &models.FeedConfig{InputDir: input, OutputDir: output}

	gen := NewGenerator(nil)
	require.NoError(t, gen.Generate(context.Background(), config, parseAll(t, input)))

	existing, err := gen.ParseExistingMetadata(config)
	require.NoError(t, err)
	require.Len(t, existing, 1)
	assert.Equal(t, "Sample", existing[0].ID)
	assert.Equal(t, "1.0.0", existing[0].Version.String())
	assert.Equal(t, []string{"test", "sample"}, existing[0].Tags)

	second := t.TempDir()
	writeNupkg(t, second, "Sample", "1.0.0")
	writeNupkg(t, second, "Sample", "2.0.0")
	incoming := parseAll(t, second)

	var fresh []*nuget.EntryProperties
	for _, pkg := range incoming {
		fresh = append(fresh, pkg.Properties)
	}
	conflicts := utils.DetectConflicts(existing, fresh)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "1.0.0", conflicts[0].Version.String())
}

func TestParseExistingMetadataMissingDir(t *testing.T) {
	config := &models.FeedConfig{OutputDir: filepath.Join(t.TempDir(), "absent")}
	entries, err := NewGenerator(nil).ParseExistingMetadata(config)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestValidatePackagesRejectsDuplicates(t *testing.T) {
	p := nuget.NewEntryProperties()
	p.ID = "Dup"
	p.Version = nuget.MustParseVersion("1.0.0")
	q := nuget.NewEntryProperties()
	q.ID = "dup"
	q.Version = nuget.MustParseVersion("1.0.0")

	err := NewGenerator(nil).ValidatePackages([]generator.Package{{Properties: p}, {Properties: q}})
	assert.Error(t, err)

	err = NewGenerator(nil).ValidatePackages([]generator.Package{{Properties: nuget.NewEntryProperties()}})
	assert.Error(t, err)
}

func TestValidatePackagesRejectsPathLikeIDs(t *testing.T) {
	for _, id := range []string{"../../escaped", "nested/dir", ".."} {
		p := nuget.NewEntryProperties()
		p.ID = id
		p.Version = nuget.MustParseVersion("1.0.0")

		err := NewGenerator(nil).ValidatePackages([]generator.Package{{Properties: p}})
		assert.Error(t, err, "id %q", id)
	}
}

func TestParsePackageRejectsTraversalID(t *testing.T) {
	in := t.TempDir()
	path := filepath.Join(in, "evil.nuspec")
	require.NoError(t, os.WriteFile(path, []byte(nuspecXML("../../escaped", "1.0.0")), 0644))

	_, err := ParsePackage(scanner.ScannedPackage{Path: path, Type: scanner.TypeNuspec})
	assert.Error(t, err)
}

func TestGenerateSignsDocuments(t *testing.T) {
	entity, err := openpgp.NewEntity("feed", "", "feed@example.org", nil)
	require.NoError(t, err)
	var key bytes.Buffer
	w, err := armor.Encode(&key, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())
	s, err := signer.NewGPGSignerFromReader(bytes.NewReader(key.Bytes()), "")
	require.NoError(t, err)

	input, output := t.TempDir(), t.TempDir()
	writeNupkg(t, input, "Signed", "1.0.0")
	config := &models.FeedConfig{InputDir: input, OutputDir: output}
	require.NoError(t, NewGenerator(s).Generate(context.Background(), config, parseAll(t, input)))

	docPath := filepath.Join(output, "Signed", "1.0.0", DocumentName)
	doc, err := os.ReadFile(docPath)
	require.NoError(t, err)
	sig, err := os.ReadFile(docPath + ".asc")
	require.NoError(t, err)
	pub, err := os.ReadFile(filepath.Join(output, PublicKeyName))
	require.NoError(t, err)

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(pub))
	require.NoError(t, err)
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, bytes.NewReader(doc), bytes.NewReader(sig), nil)
	assert.NoError(t, err)
}
