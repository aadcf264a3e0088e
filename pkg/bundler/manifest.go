package bundler

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/mrhapile/strafe-release-bundler/pkg/types"
	yaml "gopkg.in/yaml.v2"
)

// LoadManifest reads a YAML manifest of the form
//
//	entries:
//	  - source: LICENSE
//	  - source: static/index.html
//	    name: index.html
//
// and validates it.
func LoadManifest(p string) (types.Manifest, error) {
	var m types.Manifest
	data, err := os.ReadFile(p)
	if err != nil {
		return m, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		return m, fmt.Errorf("%w: %s: %v", ErrInvalidManifest, p, err)
	}
	if err := ValidateManifest(m); err != nil {
		return m, err
	}
	return m, nil
}

// ValidateManifest rejects manifests that would produce an empty archive,
// duplicate entry names, or entry names outside the archive root.
func ValidateManifest(m types.Manifest) error {
	if len(m.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrInvalidManifest)
	}
	seen := make(map[string]string, len(m.Entries))
	for i, e := range m.Entries {
		if strings.TrimSpace(e.Source) == "" {
			return fmt.Errorf("%w: entry %d has no source", ErrInvalidManifest, i)
		}
		raw := e.Name
		if raw == "" {
			raw = e.Source
		}
		cleaned := path.Clean(strings.ReplaceAll(raw, "\\", "/"))
		if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") || cleaned == "." {
			return fmt.Errorf("%w: entry name %q escapes the archive root", ErrInvalidManifest, raw)
		}
		name := EntryName(e)
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s and %s both map to %q", ErrInvalidManifest, prev, e.Source, name)
		}
		seen[name] = e.Source
	}
	return nil
}

// ManifestBuilder accumulates the checksum ledger for an archive.
type ManifestBuilder struct {
	manifest types.ReleaseManifest
}

func NewManifestBuilder(version string, ts time.Time) *ManifestBuilder {
	return &ManifestBuilder{
		manifest: types.ReleaseManifest{
			Version:     version,
			GeneratedAt: ts,
			Files:       []types.FileEntry{},
		},
	}
}

// AddFile records an archived entry. sum is the raw SHA256 of its content.
func (mb *ManifestBuilder) AddFile(name, source string, size int64, sum []byte) {
	entry := types.FileEntry{
		Name:   name,
		Source: source,
		Size:   size,
		SHA256: hex.EncodeToString(sum),
	}
	mb.manifest.Files = append(mb.manifest.Files, entry)
	mb.manifest.TotalFiles++
}

func (mb *ManifestBuilder) Build() types.ReleaseManifest {
	hasher := sha256.New()
	for _, f := range mb.manifest.Files {
		hasher.Write([]byte(f.SHA256))
	}
	mb.manifest.ContentHash = hex.EncodeToString(hasher.Sum(nil))
	return mb.manifest
}
