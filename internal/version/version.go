package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the build, overridden via ldflags
	// on release builds.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version line with commit, build time and the
// Go toolchain the binary was built with.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s, %s",
		Version, Commit, BuildTime, runtime.Version())
}
