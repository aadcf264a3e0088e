package bundler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mrhapile/strafe-release-bundler/pkg/types"
	"github.com/rs/zerolog"
)

// Option configures the bundling process.
type Option func(*config)

type config struct {
	timestamp       time.Time
	outputDir       string
	sourceDir       string
	manifest        types.Manifest
	logger          zerolog.Logger
	removeOnFailure bool
	checksumFile    bool
}

// WithTimestamp sets a fixed modification time for every entry, for
// reproducible archives. If zero, each entry keeps its source file's mtime.
func WithTimestamp(t time.Time) Option {
	return func(c *config) {
		c.timestamp = t
	}
}

// WithOutputDir sets the directory where the archive will be written.
func WithOutputDir(path string) Option {
	return func(c *config) {
		c.outputDir = path
	}
}

// WithSourceDir sets the directory manifest sources are resolved against.
func WithSourceDir(path string) Option {
	return func(c *config) {
		c.sourceDir = path
	}
}

// WithManifest replaces the default release manifest.
func WithManifest(m types.Manifest) Option {
	return func(c *config) {
		c.manifest = m
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithRemoveOnFailure deletes the partially written archive if packaging
// fails after the archive was created.
func WithRemoveOnFailure() Option {
	return func(c *config) {
		c.removeOnFailure = true
	}
}

// WithChecksumFile writes a sha256sum-style sidecar next to the archive.
func WithChecksumFile() Option {
	return func(c *config) {
		c.checksumFile = true
	}
}

// Build packages the manifest into strafe-jump-trainer-<version>.zip.
//
// The archive is created exclusively; an existing file at the target path
// is never touched. If a source cannot be read, the entries written so far
// stay in the archive on disk unless WithRemoveOnFailure was given.
func Build(version string, opts ...Option) (result *types.BundleResult, err error) {
	cfg := &config{
		outputDir: ".",
		sourceDir: ".",
		manifest:  DefaultManifest(),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger

	if err := ValidateVersion(version); err != nil {
		return nil, err
	}
	if err := ValidateManifest(cfg.manifest); err != nil {
		return nil, err
	}

	generatedAt := cfg.timestamp
	if generatedAt.IsZero() {
		generatedAt = time.Now().UTC()
	}
	manifestBuilder := NewManifestBuilder(version, generatedAt)

	archivePath := filepath.Join(cfg.outputDir, ArchiveName(version))
	if cfg.checksumFile {
		sumPath := archivePath + ChecksumExt
		if _, err := os.Lstat(sumPath); err == nil {
			return nil, fmt.Errorf("checksum file %s: %w", sumPath, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat checksum file: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	w, err := CreateArchive(archivePath, cfg.timestamp)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil && cfg.removeOnFailure {
			if rerr := os.Remove(w.Path()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				log.Warn().Err(rerr).Str("archive", w.Path()).Msg("could not remove partial archive")
			} else {
				log.Debug().Str("archive", w.Path()).Msg("removed partial archive")
			}
		}
		if err != nil {
			result = nil
		}
	}()

	log.Debug().Str("archive", w.Path()).Int("entries", len(cfg.manifest.Entries)).Msg("packaging release")

	for _, e := range cfg.manifest.Entries {
		name := EntryName(e)
		src := sourcePath(cfg.sourceDir, e)
		size, sum, err := w.AddFile(name, src)
		if err != nil {
			log.Error().Err(err).Str("entry", name).Int("written", w.Entries()).Msg("packaging aborted")
			return nil, err
		}
		manifestBuilder.AddFile(name, e.Source, size, sum)
		log.Debug().Str("entry", name).Str("source", e.Source).Int64("size", size).Msg("added")
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	info, err := os.Stat(w.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	ledger := manifestBuilder.Build()
	result = &types.BundleResult{
		ArchivePath: w.Path(),
		FileCount:   ledger.TotalFiles,
		Ledger:      ledger,
		SizeBytes:   info.Size(),
	}

	if cfg.checksumFile {
		sumPath, err := WriteChecksumFile(w.Path())
		if err != nil {
			return nil, err
		}
		result.ChecksumPath = sumPath
	}

	log.Info().
		Str("archive", result.ArchivePath).
		Int("files", result.FileCount).
		Int64("bytes", result.SizeBytes).
		Msg("release archive created")
	return result, nil
}
