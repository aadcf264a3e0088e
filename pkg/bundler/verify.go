package bundler

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mrhapile/strafe-release-bundler/pkg/types"
)

// Verify checks that the archive at archivePath holds exactly the entries
// named by m, and that each one decompresses to the bytes of its source
// under sourceDir.
func Verify(archivePath, sourceDir string, m types.Manifest) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		if _, dup := byName[f.Name]; dup {
			return fmt.Errorf("%w: duplicate entry %q", ErrVerifyMismatch, f.Name)
		}
		byName[f.Name] = f
	}

	if len(byName) != len(m.Entries) {
		return fmt.Errorf("%w: archive has %d entries, manifest has %d (%s)",
			ErrVerifyMismatch, len(byName), len(m.Entries), strings.Join(sortedNames(byName), ", "))
	}

	for _, e := range m.Entries {
		name := EntryName(e)
		f, ok := byName[name]
		if !ok {
			return fmt.Errorf("%w: missing entry %q", ErrVerifyMismatch, name)
		}
		if f.Method != zip.Deflate {
			return fmt.Errorf("%w: entry %q is not deflate-compressed", ErrVerifyMismatch, name)
		}

		got, err := entrySum(f)
		if err != nil {
			return err
		}
		want, err := fileSum(sourcePath(sourceDir, e))
		if err != nil {
			return err
		}
		if !bytes.Equal(got, want) {
			return fmt.Errorf("%w: entry %q differs from %s", ErrVerifyMismatch, name, e.Source)
		}
	}
	return nil
}

func entrySum(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return nil, fmt.Errorf("failed to read entry %s: %w", f.Name, err)
	}
	return h.Sum(nil), nil
}

func fileSum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return h.Sum(nil), nil
}

func sortedNames(files map[string]*zip.File) []string {
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
