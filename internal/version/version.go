// Package version holds build metadata injected at link time.
package version

import "fmt"

// Version is set via ldflags in release builds:
// go build -ldflags "-X git.home.luguber.info/inful/chronicle/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by `chronicle version`.
func String() string {
	return fmt.Sprintf("chronicle %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
