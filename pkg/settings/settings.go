// Package settings carries build metadata and the settings of one redkv run.
package settings

import "fmt"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "redkv"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// String renders the one-line form printed by the version command.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}

// Run holds the resolved settings of a single session: where logs go, how
// the UI looks and which server it talks to.
type Run struct {
	MinLogLevel int8
	LogFile     string
	NoColor     bool
	KeyMap      string
	Addr        string
	DB          int
}

// NewCliParams returns the settings a bare command line starts from.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		KeyMap:      "vim",
	}
}
