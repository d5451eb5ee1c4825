// Package display is the display controller: it enumerates connected
// outputs, resolves geometry, switches primary/on/off state with verified
// post-conditions, and renders fullscreen images through an external viewer
// chosen by capability probe.
//
// All hardware access goes through the external display query tool (xrandr)
// via a toolrunner.Runner, so the package carries no protocol-level driver
// code and is testable against canned tool output.
package display
