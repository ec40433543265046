// Package version reports build information for the dashboard binary
package version

import "runtime/debug"

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// Service is the name reported by meta endpoints and logs
const Service = "visitsdash"

// Set via -ldflags "-X 'visitsdash/internal/core/version.version=v0.1.0'
// -X 'visitsdash/internal/core/version.commit=abcd' -X 'visitsdash/internal/core/version.date=2024-03-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// readBuildInfo is a seam for tests
var readBuildInfo = debug.ReadBuildInfo

// Info returns the build information. When no commit was stamped at link
// time the VCS revision recorded by the toolchain is used instead
func Info() BuildInfo {
	bi := BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	info, ok := readBuildInfo()
	if !ok {
		return bi
	}
	bi.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		}
	}
	return bi
}
