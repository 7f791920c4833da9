package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for package detection
var (
	// .nupkg files are zip archives
	zipMagic = []byte("PK\x03\x04")

	// Byte order mark some tools put in front of .nuspec files
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
)

// DetectPackageType determines the package type based on magic bytes and file extension
func DetectPackageType(path string) (PackageType, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".nupkg" && ext != ".nuspec" {
		return TypeUnknown, nil
	}

	// Open file
	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	// Read first 512 bytes for magic byte detection
	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return TypeUnknown, err
	}
	header = header[:n]

	// Symbol packages share the extension but are never published in feeds
	if ext == ".nupkg" && !strings.HasSuffix(strings.ToLower(path), ".symbols.nupkg") &&
		bytes.HasPrefix(header, zipMagic) {
		return TypeNupkg, nil
	}

	if ext == ".nuspec" {
		header = bytes.TrimPrefix(header, utf8BOM)
		if bytes.HasPrefix(bytes.TrimSpace(header), []byte("<")) {
			return TypeNuspec, nil
		}
	}

	return TypeUnknown, nil
}
