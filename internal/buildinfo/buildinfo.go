// Package buildinfo exposes version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/movieclient/internal/buildinfo.buildVersion=v1.2.0 \
//	  -X github.com/dmitrijs2005/movieclient/internal/buildinfo.buildDate=2025-01-01 \
//	  -X github.com/dmitrijs2005/movieclient/internal/buildinfo.buildCommit=abc123"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Version is the build version, or "dev" for untagged builds.
func Version() string {
	if buildVersion == "" {
		return "dev"
	}
	return buildVersion
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "movieclient/" + Version()
}

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", orNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(buildCommit))
}
