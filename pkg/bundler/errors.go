package bundler

import "errors"

var (
	// ErrMissingVersion is returned when no version was supplied.
	ErrMissingVersion = errors.New("missing version")

	// ErrInvalidVersion is returned when a version is not a dotted numeric triple.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidManifest is returned for empty, duplicate or escaping manifest entries.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrVerifyMismatch is returned when an archive does not match its sources.
	ErrVerifyMismatch = errors.New("archive does not match sources")
)
