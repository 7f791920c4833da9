package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner finds NuGet packages and specifications below a directory
type FileSystemScanner struct {
	exclude map[string]bool
}

// NewFileSystemScanner creates a new filesystem scanner. Directories in
// exclude, typically the feed output directory, are never entered.
func NewFileSystemScanner(exclude ...string) *FileSystemScanner {
	s := &FileSystemScanner{exclude: make(map[string]bool, len(exclude))}
	for _, dir := range exclude {
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			s.exclude[abs] = true
		}
	}
	return s
}

func (s *FileSystemScanner) excluded(path string) bool {
	if len(s.exclude) == 0 {
		return false
	}
	abs, err := filepath.Abs(path)
	return err == nil && s.exclude[abs]
}

// Scan walks dir and returns every package it recognises, sorted by path.
// Hidden directories (.git, .nuget caches) are not entered.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedPackage, error) {
	var packages []ScannedPackage

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if path != dir && s.excluded(path) {
				logrus.Debugf("Skipping excluded directory: %s", path)
				return filepath.SkipDir
			}
			return nil
		}

		pkgType, err := s.DetectType(path)
		if err != nil {
			logrus.WithField("path", path).Warnf("Failed to detect package type: %v", err)
			return nil
		}
		if pkgType == TypeUnknown {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		logrus.Debugf("Found %s: %s", pkgType, path)
		packages = append(packages, ScannedPackage{
			Path: path,
			Type: pkgType,
			Size: info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Path < packages[j].Path
	})

	logrus.Infof("Found %d packages in %s", len(packages), dir)
	return packages, nil
}

// DetectType determines the package type of a file
func (s *FileSystemScanner) DetectType(path string) (PackageType, error) {
	return DetectPackageType(path)
}
