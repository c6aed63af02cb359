// Package version reports what build is running
package version

import (
	"runtime/debug"
	"sync"
)

// Service is the API service name
const Service = "wardtpr-api"

// Stamped with -ldflags "-X wardtpr/internal/core/version.version=v0.3.0 -X ...commit=... -X ...date=..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

// BuildInfo identifies a build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

var info = sync.OnceValue(func() BuildInfo {
	bi := BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
	if rt, ok := debug.ReadBuildInfo(); ok {
		bi.GoVersion = rt.GoVersion
		fillVCS(&bi, rt.Settings)
	}
	if bi.Commit == "" {
		bi.Commit = "none"
	}
	if bi.Date == "" {
		bi.Date = "unknown"
	}
	return bi
})

// Info returns the ldflags stamp, falling back to the VCS data the go tool embeds
func Info() BuildInfo { return info() }

func fillVCS(bi *BuildInfo, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "" {
				bi.Date = s.Value
			}
		}
	}
}
