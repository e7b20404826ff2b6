package ngff

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// Versions lists the OME-NGFF metadata versions this module implements.
var Versions = []string{"0.4"}

// ParseVersion parses an NGFF version tag into a semver.Version, tolerating
// the two-part tags ("0.4") the metadata format uses.
func ParseVersion(tag string) (semver.Version, error) {
	normalized := tag
	if n := len(strings.Split(tag, ".")); n == 2 {
		normalized = tag + ".0"
	}
	v, err := semver.Make(normalized)
	if err != nil {
		return semver.Version{}, fmt.Errorf("bad NGFF version tag %q: %w", tag, err)
	}
	return v, nil
}
