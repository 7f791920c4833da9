package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyFile copies a file from src to dst
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}

	// Sync to disk
	return dstFile.Sync()
}

// WriteFile writes data to a file, creating directories as needed
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, perm)
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ShouldCopyPackage reports whether the package at src must be copied to
// dst. An existing destination is kept when its size and SHA-512 match
// sha512 (hex); an empty sha512 compares sizes only.
func ShouldCopyPackage(src, dst, sha512 string) (bool, error) {
	src = filepath.Clean(src)
	dst = filepath.Clean(dst)
	if src == dst {
		return false, nil
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("cannot stat source: %w", err)
	}

	dstInfo, err := os.Stat(dst)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("cannot stat destination: %w", err)
	}

	if srcInfo.Size() != dstInfo.Size() {
		return true, nil
	}

	if sha512 != "" {
		dstChecksums, err := CalculateChecksums(dst)
		if err != nil {
			// Can't calculate checksums, copy to be safe
			return true, nil
		}
		if sha512 != dstChecksums.SHA512 {
			return true, nil
		}
	}

	return false, nil
}
