// Package version provides version information for the wn CLI.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the CLI version (set via ldflags).
	Version = "v0.0.0-dev"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"

	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)

// RuntimeVersion is the runtime package version new projects depend on.
const RuntimeVersion = "1.0.0"

// CUESDKVersion is the version of the CUE SDK that validates wn.yaml.
const CUESDKVersion = "v0.15.4"

// Info contains version information.
type Info struct {
	Version        string `json:"version"`
	GitCommit      string `json:"gitCommit"`
	BuildDate      string `json:"buildDate"`
	GoVersion      string `json:"goVersion"`
	RuntimeVersion string `json:"runtimeVersion"`
	CUESDKVersion  string `json:"cueSDKVersion"`
}

// GetInfo returns the current version information.
func GetInfo() Info {
	return Info{
		Version:        Version,
		GitCommit:      GitCommit,
		BuildDate:      BuildDate,
		GoVersion:      runtime.Version(),
		RuntimeVersion: RuntimeVersion,
		CUESDKVersion:  CUESDKVersion,
	}
}

// String returns a human-readable version string.
func (i Info) String() string {
	return fmt.Sprintf("wn:\n  Version:  %s\n  Build ID: %s/%s\n  Go:       %s\n\nRuntime:\n  Package Version: %s\n\nCUE:\n  SDK Version: %s",
		i.Version, i.BuildDate, i.GitCommit, i.GoVersion, i.RuntimeVersion, i.CUESDKVersion)
}
