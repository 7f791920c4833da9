package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/nugetprops/internal/nuget"
	"github.com/ralt/nugetprops/internal/utils"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var withDeps bool

	cmd := &cobra.Command{
		Use:   "inspect <properties.xml>",
		Short: "Decode a properties document and print it as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPropertiesFile(args[0])
			if err != nil {
				return err
			}
			return writeInspection(cmd.OutOrStdout(), p, withDeps)
		},
	}

	cmd.Flags().BoolVar(&withDeps, "dependencies", false, "Also print the parsed dependency list")

	return cmd
}

// readPropertiesFile decodes a document, decompressing it first when the
// file name carries a compression extension
func readPropertiesFile(path string) (*nuget.EntryProperties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	format := utils.CompressionNone
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		format = utils.CompressionGzip
	case ".xz":
		format = utils.CompressionXz
	case ".zst":
		format = utils.CompressionZstd
	}
	if data, err = utils.Decompress(data, format); err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}

	return nuget.ParseEntryProperties(bytes.NewReader(data))
}

type inspection struct {
	Properties   *nuget.EntryProperties `yaml:"properties"`
	Dependencies []string               `yaml:"dependencyList,omitempty"`
}

func writeInspection(w io.Writer, p *nuget.EntryProperties, withDeps bool) error {
	out := inspection{Properties: p}
	if withDeps {
		for _, d := range p.DependenciesList() {
			out.Dependencies = append(out.Dependencies, d.String())
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
