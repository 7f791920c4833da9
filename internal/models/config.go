package models

// FeedConfig contains configuration for properties document generation
type FeedConfig struct {
	// Input/Output
	InputDir  string
	OutputDir string

	// Compression of the emitted documents: "", "gzip", "xz" or "zstd".
	// The plain XML document is always written.
	Compression string

	// Signing
	GPGKeyPath    string
	GPGPassphrase string

	// Incremental mode
	Incremental bool // Keep documents already present in OutputDir

	// Mark the highest version of each package id with IsLatestVersion
	MarkLatest bool
}
