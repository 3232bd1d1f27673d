package version

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var semVerPattern = regexp.MustCompile(`^v?(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// SemVer is a parsed semantic version (semver.org 2.0.0).
type SemVer struct {
	Major      int64
	Minor      int64
	Patch      int64
	PreRelease string
	Build      string
}

// Parse accepts an optional "v" prefix, as produced by git tags.
func Parse(raw string) (SemVer, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SemVer{}, errors.New("version cannot be empty")
	}

	m := semVerPattern.FindStringSubmatch(raw)
	if m == nil {
		return SemVer{}, fmt.Errorf("invalid semantic version: %q", raw)
	}

	var v SemVer
	for i, dst := range []*int64{&v.Major, &v.Minor, &v.Patch} {
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return SemVer{}, fmt.Errorf("invalid semantic version %q: %w", raw, err)
		}
		*dst = n
	}
	v.PreRelease, v.Build = m[4], m[5]

	for _, id := range strings.Split(v.PreRelease, ".") {
		if len(id) > 1 && id[0] == '0' && isNumeric(id) {
			return SemVer{}, fmt.Errorf("invalid prerelease identifier %q: leading zero", id)
		}
	}
	return v, nil
}

// String renders v without the "v" prefix.
func (v SemVer) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
