package utils

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"io"
	"os"
)

// Checksum contains the digests recorded for a package file
type Checksum struct {
	SHA512 string
	// SHA512Base64 is the form NuGet feeds publish as PackageHash
	SHA512Base64 string
	Size         int64
}

// CalculateChecksums calculates the SHA-512 digest and size of a file in a
// single pass
func CalculateChecksums(path string) (*Checksum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sha512Hash := sha512.New()
	n, err := io.Copy(sha512Hash, f)
	if err != nil {
		return nil, err
	}

	sum512 := sha512Hash.Sum(nil)
	return &Checksum{
		SHA512:       hex.EncodeToString(sum512),
		SHA512Base64: base64.StdEncoding.EncodeToString(sum512),
		Size:         n,
	}, nil
}
