package tagbridge

import (
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the tagbridge library.
const Version = "0.1.0"

// VersionInfo contains detailed version information.
type VersionInfo struct {
	// Version is the semantic version (e.g., "0.1.0")
	Version string
	// Revision is the VCS commit the binary was built from
	Revision string
	// BuildTime is the commit time of Revision
	BuildTime string
	// Modified reports uncommitted changes in the build tree
	Modified bool
	// GoVersion is the Go version used to build
	GoVersion string
}

// GetVersionInfo returns version details. Revision and BuildTime come from
// the VCS stamp the go command embeds and read "unknown" when absent.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		Revision:  "unknown",
		BuildTime: "unknown",
		GoVersion: runtime.Version(),
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
