package bundler

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/mrhapile/strafe-release-bundler/pkg/types"
)

const (
	ArchivePrefix  = "strafe-jump-trainer-"
	ArchiveExt     = ".zip"
	ChecksumExt    = ".sha256"
	IndexFile      = "index.html"
	StaticIndex    = "static/index.html"
	LicenseFile    = "LICENSE"
	ReadmeFile     = "README.md"
	BindingsDir    = "pkg"
	BindingsPrefix = "strafe_tutorial"
)

// DefaultManifest returns the files shipped with every trainer release.
// The static HTML entry point is moved to the archive root.
func DefaultManifest() types.Manifest {
	return types.Manifest{
		Entries: []types.ManifestEntry{
			{Source: LicenseFile},
			{Source: ReadmeFile},
			{Source: path.Join(BindingsDir, BindingsPrefix+"_bg.d.ts")},
			{Source: path.Join(BindingsDir, BindingsPrefix+"_bg.wasm")},
			{Source: path.Join(BindingsDir, BindingsPrefix+".d.ts")},
			{Source: path.Join(BindingsDir, BindingsPrefix+".js")},
			{Source: StaticIndex, Name: IndexFile},
		},
	}
}

// ArchiveName returns the file name of the release archive for version.
func ArchiveName(version string) string {
	return ArchivePrefix + version + ArchiveExt
}

// EntryName returns the normalised archive name for e: slash separated,
// without a leading "./" or "/".
func EntryName(e types.ManifestEntry) string {
	name := e.Name
	if name == "" {
		name = e.Source
	}
	name = path.Clean(filepath.ToSlash(name))
	return strings.TrimLeft(name, "/")
}

// sourcePath resolves the on-disk location of e under sourceDir.
func sourcePath(sourceDir string, e types.ManifestEntry) string {
	return filepath.Join(sourceDir, filepath.FromSlash(e.Source))
}
