// Package version exposes build-time version information for respool.
package version

import "strings"

// Set at build time via ldflags, e.g.
//
//	go build -ldflags "\
//	  -X github.com/go-i2p/respool/version.Version=1.2.0 \
//	  -X github.com/go-i2p/respool/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/go-i2p/respool/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the release version; "dev" for local builds.
	Version = "dev"
	// GitCommit is the short commit hash the build was made from.
	GitCommit = ""
	// BuildTime is the UTC timestamp of the build.
	BuildTime = ""
)

// Info bundles the build identity for logs and debug surfaces.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
}

// Current returns the build info compiled into this binary.
func Current() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
}

// String renders the info as "version[+commit][ built time]".
func (i Info) String() string {
	var b strings.Builder
	b.WriteString(i.Version)
	if i.GitCommit != "" {
		b.WriteString("+")
		b.WriteString(i.GitCommit)
	}
	if i.BuildTime != "" {
		b.WriteString(" built ")
		b.WriteString(i.BuildTime)
	}
	return b.String()
}

// Full renders the build info for the current binary.
func Full() string {
	return Current().String()
}
