package types

// ManifestEntry maps one source file to its name inside the release archive.
type ManifestEntry struct {
	// Source is the path of the file to package, relative to the source directory.
	Source string `json:"source" yaml:"source"`

	// Name is the entry name inside the archive. Empty means "same as Source".
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Manifest is the ordered list of files packaged on every run.
type Manifest struct {
	Entries []ManifestEntry `json:"entries" yaml:"entries"`
}

// BundleResult represents the output of a successful bundling operation.
type BundleResult struct {
	ArchivePath  string          `json:"archivePath" yaml:"archivePath"`                       // The absolute path to the generated archive file
	ChecksumPath string          `json:"checksumPath,omitempty" yaml:"checksumPath,omitempty"` // Sidecar .sha256 file, if one was written
	FileCount    int             `json:"fileCount" yaml:"fileCount"`                           // Number of entries archived
	Ledger       ReleaseManifest `json:"ledger" yaml:"ledger"`                                 // Per-entry checksums of what was archived
	SizeBytes    int64           `json:"sizeBytes" yaml:"sizeBytes"`                           // Size of the archive on disk
}
