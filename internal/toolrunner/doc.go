// Package toolrunner is the gateway to the external display and input tools
// (xrandr, xinput, image viewers).
//
// Every invocation is bounded by a timeout and failures come back as typed
// errors: *ToolError for non-zero exits with captured stderr, ErrToolTimeout
// for deadline hits, ErrToolNotInstalled for missing binaries. Services
// depend on the Runner interface and are tested against fakes.
package toolrunner
