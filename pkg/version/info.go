// Package version exposes the build metadata of the binary.
package version

import (
	"fmt"
	"strings"
)

const (
	// Unknown marks build metadata that was not injected.
	Unknown = "unknown"
	// DevelopmentVersion is reported by local builds.
	DevelopmentVersion = "dev"
)

// Set at build time:
//
//	go build -ldflags "-X github.com/nimburion/catalog-api/pkg/version.AppVersion=v1.2.3 \
//	  -X github.com/nimburion/catalog-api/pkg/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/nimburion/catalog-api/pkg/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	AppVersion = DevelopmentVersion
	GitCommit  = Unknown
	BuildTime  = Unknown
)

// Info is served on the management /version endpoint and printed by the
// version command.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// Current returns the metadata of the running binary for serviceName.
func Current(serviceName string) Info {
	return Info{
		Service:   orDefault(serviceName, Unknown),
		Version:   orDefault(AppVersion, DevelopmentVersion),
		Commit:    orDefault(GitCommit, Unknown),
		BuildTime: orDefault(BuildTime, Unknown),
	}
}

// SemVer parses Version, reporting false for non-release builds.
func (i Info) SemVer() (SemVer, bool) {
	v, err := Parse(i.Version)
	if err != nil {
		return SemVer{}, false
	}
	return v, true
}

// APIVersion renders the version without the "v" prefix, as published in
// API documents. Non-semantic versions become a 0.0.0 pre-release.
func (i Info) APIVersion() string {
	if v, ok := i.SemVer(); ok {
		return v.String()
	}
	return "0.0.0-" + i.Version
}

func (i Info) String() string {
	return fmt.Sprintf("%s@%s (commit=%s, build_time=%s)", i.Service, i.Version, i.Commit, i.BuildTime)
}

func orDefault(v, fallback string) string {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		return trimmed
	}
	return fallback
}
