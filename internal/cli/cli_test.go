package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/ralt/nugetprops/internal/models"
	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleNuspec = `<?xml version="1.0"?>
<package>
  <metadata>
    <id>Cli.Sample</id>
    <version>2.1.0</version>
    <description>From the command line</description>
    <tags>cli sample</tags>
    <dependencies>
      <dependency id="Dep.One" version="[1.0,2.0)" />
    </dependencies>
  </metadata>
</package>`

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  models.FeedConfig
		wantErr bool
	}{
		{"valid", models.FeedConfig{InputDir: "in", OutputDir: "out"}, false},
		{"valid zstd", models.FeedConfig{InputDir: "in", OutputDir: "out", Compression: "zstd"}, false},
		{"missing input", models.FeedConfig{OutputDir: "out"}, true},
		{"missing output", models.FeedConfig{InputDir: "in"}, true},
		{"bad compression", models.FeedConfig{InputDir: "in", OutputDir: "out", Compression: "lz4"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(&tt.config)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, &models.CodecError{Type: models.ErrInvalidConfig}))
		})
	}
}

func TestGenerateThenInspect(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "Cli.Sample.nuspec"), []byte(sampleNuspec), 0644))

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-i", in, "-o", out, "-c", "gzip"})
	require.NoError(t, root.Execute())

	docPath := filepath.Join(out, "Cli.Sample", "2.1.0", "properties.xml")
	require.FileExists(t, docPath)
	require.FileExists(t, docPath+".gz")

	var stdout bytes.Buffer
	root = NewRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"inspect", "--dependencies", docPath + ".gz"})
	require.NoError(t, root.Execute())

	var decoded struct {
		Properties struct {
			Version     string   `yaml:"version"`
			Description string   `yaml:"description"`
			Tags        []string `yaml:"tags"`
			Latest      bool     `yaml:"isLatestVersion"`
		} `yaml:"properties"`
		Dependencies []string `yaml:"dependencyList"`
	}
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, "2.1.0", decoded.Properties.Version)
	assert.Equal(t, "From the command line", decoded.Properties.Description)
	assert.Equal(t, []string{"cli", "sample"}, decoded.Properties.Tags)
	assert.True(t, decoded.Properties.Latest)
	assert.Equal(t, []string{"Dep.One:[1.0,2.0)"}, decoded.Dependencies)
}

func TestIncrementalKeepsPublishedDocuments(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "Cli.Sample.nuspec"), []byte(sampleNuspec), 0644))

	root := NewRootCmd()
	root.SetArgs([]string{"generate", "-i", in, "-o", out})
	require.NoError(t, root.Execute())

	docPath := filepath.Join(out, "Cli.Sample", "2.1.0", "properties.xml")
	first, err := os.ReadFile(docPath)
	require.NoError(t, err)

	// A changed description for the same identity must not replace the
	// published document.
	changed := bytes.Replace([]byte(sampleNuspec), []byte("From the command line"), []byte("Rewritten"), 1)
	require.NoError(t, os.WriteFile(filepath.Join(in, "Cli.Sample.nuspec"), changed, 0644))

	root = NewRootCmd()
	root.SetArgs([]string{"generate", "-i", in, "-o", out, "--incremental"})
	require.NoError(t, root.Execute())

	p, err := readPropertiesFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, "From the command line", p.Description)

	again, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again))
}

func TestInspectRejectsNonDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.xml")
	require.NoError(t, os.WriteFile(path, []byte("<feed/>"), 0644))

	_, err := readPropertiesFile(path)
	assert.Error(t, err)
}

func TestReadPropertiesFileDecompresses(t *testing.T) {
	p := nuget.NewEntryProperties()
	p.Version = nuget.MustParseVersion("1.0.0")
	doc, err := p.Marshal()
	require.NoError(t, err)

	compressed, err := utils.Compress(doc, utils.CompressionXz)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "properties.xml.xz")
	require.NoError(t, os.WriteFile(path, compressed, 0644))

	got, err := readPropertiesFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", got.Version.String())
}

func writeSampleNupkg(t *testing.T, dir string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, "Cli.Sample.2.1.0.nupkg"))
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("Cli.Sample.nuspec")
	require.NoError(t, err)
	_, err = w.Write([]byte(sampleNuspec))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}

func TestGenerateTwiceWithFeedInsideInput(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(in, "feed")
	writeSampleNupkg(t, in)

	for run := 1; run <= 2; run++ {
		root := NewRootCmd()
		root.SetArgs([]string{"generate", "-i", in, "-o", out})
		require.NoError(t, root.Execute(), "run %d", run)
	}

	require.FileExists(t, filepath.Join(out, "Cli.Sample", "2.1.0", "Cli.Sample.2.1.0.nupkg"))
	p, err := readPropertiesFile(filepath.Join(out, "Cli.Sample", "2.1.0", "properties.xml"))
	require.NoError(t, err)
	assert.NotEmpty(t, p.PackageHash)
}
