package display

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/einkmax/einkctl/internal/domain/panel"
)

// geometryPattern matches the WxH+X+Y mode token xrandr prints for active
// outputs, e.g. "1200x1920+1920+0". Offsets may be negative.
var geometryPattern = regexp.MustCompile(`^(\d+)x(\d+)([+-]\d+)([+-]\d+)$`)

// parseDisplays extracts connected outputs from `xrandr --query` output.
// A connected output line looks like:
//
//	eDP-1 connected primary 2880x1800+0+0 (normal left ...) 302mm x 188mm
//	DP-2 connected 1200x1920+2880+0 (normal left ...) 162mm x 259mm
//	DP-3 connected (normal left ...)
//
// The third form is connected-but-off: no geometry token.
func parseDisplays(out string) []panel.Display {
	var displays []panel.Display

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "connected" {
			continue
		}

		d := panel.Display{
			Name: fields[0],
		}

		for _, field := range fields[2:] {
			if field == "primary" {
				d.Primary = true
				continue
			}

			if g := parseGeometry(field); g != nil {
				d.Geometry = g
				break
			}
		}

		displays = append(displays, d)
	}

	return displays
}

// parseGeometry parses a single "WxH+X+Y" token, returning nil when the
// token is not a geometry.
func parseGeometry(token string) *panel.Geometry {
	m := geometryPattern.FindStringSubmatch(token)
	if m == nil {
		return nil
	}

	width, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	height, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}

	x, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}

	y, err := strconv.Atoi(m[4])
	if err != nil {
		return nil
	}

	return &panel.Geometry{
		Width:  width,
		Height: height,
		X:      x,
		Y:      y,
	}
}
