package types

import "time"

// ReleaseManifest records what went into a release archive.
type ReleaseManifest struct {
	// Version is the release version the archive was built for.
	Version string `json:"version" yaml:"version"`

	// GeneratedAt is the timestamp when the archive was created.
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`

	// TotalFiles is the count of entries in the archive.
	TotalFiles int `json:"totalFiles" yaml:"totalFiles"`

	// Files lists all entries in archive order.
	Files []FileEntry `json:"files" yaml:"files"`

	// ContentHash is the SHA256 of the concatenated per-file hashes, in archive order.
	ContentHash string `json:"contentHash" yaml:"contentHash"`
}

// FileEntry represents a single file inside the archive.
type FileEntry struct {
	// Name is the entry name inside the archive.
	Name string `json:"name" yaml:"name"`

	// Source is the path the content was read from.
	Source string `json:"source" yaml:"source"`

	// Size is the uncompressed size of the file in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SHA256 is the checksum of the file content.
	SHA256 string `json:"sha256" yaml:"sha256"`
}
