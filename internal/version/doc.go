// Package version exposes the build metadata shared by the eink-agent and
// einkctl binaries. Version, Commit and BuildTime are injected via ldflags
// and default to sensible values for local builds.
package version
