// Package input is the input router: it enumerates touch-capable devices
// through the external input query tool (xinput), classifies each onto the
// primary or secondary panel by a documented name heuristic, and flips
// devices individually or per panel with verified post-conditions.
package input
