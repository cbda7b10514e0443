// In file: cmd/weather-agent/version.go
package main

import (
	"fmt"
	"runtime"

	"github.com/dileep-u-k/weather-agent/internal/version"
)

// Set with -ldflags at build time.
var (
	buildVersion = "dev"
	buildDate    = "unknown"
	gitCommit    = "unknown"
)

type BuildInfo struct {
	Version, BuildDate, GitCommit, GoVersion, Platform, Components string
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:    buildVersion,
		BuildDate:  buildDate,
		GitCommit:  gitCommit,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		Components: version.Stamp(),
	}
}
