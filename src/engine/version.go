package engine

import (
	"fmt"
	"regexp"

	masterminds "github.com/Masterminds/semver/v3"
)

// MinSupportedVersion is the oldest engine release the compose templates
// work with; compose v2 and BuildKit defaults landed in 20.10.
const MinSupportedVersion = "20.10.0"

// versionRe pulls the first dotted version out of a banner like
// "Docker version 28.1.0, build abc1234" or a bare "28.1.0".
var versionRe = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ParseVersion extracts and parses the engine version from a version
// banner or bare version string.
func ParseVersion(raw string) (*masterminds.Version, error) {
	m := versionRe.FindString(raw)
	if m == "" {
		return nil, fmt.Errorf("no version number in %q", raw)
	}
	v, err := masterminds.NewVersion(m)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", m, err)
	}
	return v, nil
}

// MeetsMinimum reports whether the version in raw satisfies
// MinSupportedVersion, returning the parsed version for display.
func MeetsMinimum(raw string) (ok bool, detected string, err error) {
	v, err := ParseVersion(raw)
	if err != nil {
		return false, "", err
	}
	min := masterminds.MustParse(MinSupportedVersion)
	return !v.LessThan(min), v.String(), nil
}
