package bundler

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// ArchiveWriter streams files into a zip archive created with exclusive
// create semantics. Every entry is deflate-compressed.
type ArchiveWriter struct {
	path    string
	f       *os.File
	zw      *zip.Writer
	ts      time.Time // overrides entry mod times when non-zero
	entries int
	closed  bool
}

// CreateArchive creates a new archive at path. It fails with an error
// wrapping fs.ErrExist if anything already exists there.
func CreateArchive(path string, ts time.Time) (*ArchiveWriter, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}

	return &ArchiveWriter{
		path: absPath,
		f:    f,
		zw:   zip.NewWriter(f),
		ts:   ts,
	}, nil
}

// Path returns the absolute path of the archive.
func (w *ArchiveWriter) Path() string {
	return w.path
}

// Entries returns the number of entries written so far.
func (w *ArchiveWriter) Entries() int {
	return w.entries
}

// AddFile streams the file at src into the archive under name and returns
// its uncompressed size and SHA256.
func (w *ArchiveWriter) AddFile(name, src string) (int64, []byte, error) {
	if w.closed {
		return 0, nil, fmt.Errorf("archive %s already closed", w.path)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, nil, fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return 0, nil, fmt.Errorf("%s is not a regular file", src)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build header for %s: %w", src, err)
	}
	header.Name = name
	header.Method = zip.Deflate
	if !w.ts.IsZero() {
		header.Modified = w.ts
	}

	ew, err := w.zw.CreateHeader(header)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(ew, h), in)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to write content for %s: %w", name, err)
	}

	w.entries++
	return n, h.Sum(nil), nil
}

// Close writes the central directory and closes the file. Entries added
// before a failed AddFile remain in the archive. Close is idempotent.
func (w *ArchiveWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	zerr := w.zw.Close()
	ferr := w.f.Close()
	if zerr != nil {
		return fmt.Errorf("failed to finalize archive: %w", zerr)
	}
	if ferr != nil {
		return fmt.Errorf("failed to close archive file: %w", ferr)
	}
	return nil
}

// WriteChecksumFile writes "<sha256>  <archive base name>" to
// archivePath+ChecksumExt, refusing to overwrite an existing file.
func WriteChecksumFile(archivePath string) (string, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash archive: %w", err)
	}

	sumPath := archivePath + ChecksumExt
	out, err := os.OpenFile(sumPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create checksum file: %w", err)
	}
	line := fmt.Sprintf("%s  %s\n", hex.EncodeToString(h.Sum(nil)), filepath.Base(archivePath))
	if _, err := io.WriteString(out, line); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close checksum file: %w", err)
	}
	return sumPath, nil
}
