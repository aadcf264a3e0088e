package bundler

import (
	"fmt"
	"regexp"
)

// EnvVersion is the CI variable consulted when no version argument is given.
const EnvVersion = "TRAVIS_TAG"

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)

// ValidateVersion reports whether v is three dot-separated digit runs.
func ValidateVersion(v string) error {
	if v == "" {
		return ErrMissingVersion
	}
	if !versionPattern.MatchString(v) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return nil
}

// ResolveVersion picks the version from the positional arguments, falling
// back to the EnvVersion variable read through getenv. More than one
// argument is an invalid version. The result is always validated.
func ResolveVersion(args []string, getenv func(string) string) (string, error) {
	var v string
	switch len(args) {
	case 0:
		if getenv != nil {
			v = getenv(EnvVersion)
		}
	case 1:
		v = args[0]
	default:
		return "", fmt.Errorf("%w: expected one argument, got %d", ErrInvalidVersion, len(args))
	}
	if err := ValidateVersion(v); err != nil {
		return "", err
	}
	return v, nil
}
