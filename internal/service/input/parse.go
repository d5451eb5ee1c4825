package input

import (
	"strings"

	"github.com/einkmax/einkctl/internal/domain/panel"
)

// Token tables for the default classification policy. Name matching is a
// heuristic, not hardware detection: the tables are package-level so a fork
// targeting different hardware can adjust them.
var (
	// secondaryVendorTokens mark devices on the e-ink surface. Goodix is
	// the e-ink touchscreen controller on the ThinkBook Plus line.
	secondaryVendorTokens = []string{"goodix"}

	// stylusTokens mark pen devices, which live on the main surface.
	stylusTokens = []string{"pen", "stylus"}

	// touchTokens mark the remaining touch-capable devices.
	touchTokens = []string{"wacom", "touchscreen", "finger", "touch"}
)

// parseTouchDevices extracts touch-capable devices from `xinput list`
// output and groups them by panel. Device lines look like:
//
//	⎜   ↳ Wacom HID 5276 Pen stylus              id=11 [slave pointer (2)]
//	⎜   ↳ Goodix Capacitive TouchScreen          id=14 [slave pointer (2)]
func parseTouchDevices(out string) *panel.TouchDevices {
	devices := &panel.TouchDevices{}

	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)

		if !isTouchCapable(lower) || !strings.Contains(line, "id=") {
			continue
		}

		id := parseDeviceID(line)
		if id == "" {
			continue
		}

		device := panel.TouchDevice{
			Name:  parseDeviceName(line),
			ID:    id,
			Panel: Classify(lower),
		}

		if device.Panel == panel.Secondary {
			devices.Secondary = append(devices.Secondary, device)
		} else {
			devices.Primary = append(devices.Primary, device)
		}
	}

	return devices
}

// Classify assigns a device to a panel by name tokens, in priority order:
// an e-ink vendor token wins, then pen/stylus, then everything
// touch-capable defaults to the primary panel. This is the documented
// default policy, not a guaranteed-correct hardware mapping.
func Classify(lowerName string) panel.Panel {
	switch {
	case containsAny(lowerName, secondaryVendorTokens):
		return panel.Secondary
	case containsAny(lowerName, stylusTokens):
		return panel.Primary
	default:
		return panel.Primary
	}
}

// isTouchCapable reports whether the lowercase line names a touch device.
func isTouchCapable(lower string) bool {
	return containsAny(lower, secondaryVendorTokens) ||
		containsAny(lower, touchTokens) ||
		containsAny(lower, stylusTokens)
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}

	return false
}

// parseDeviceID extracts the numeric id following "id=".
func parseDeviceID(line string) string {
	_, rest, ok := strings.Cut(line, "id=")
	if !ok {
		return ""
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// parseDeviceName extracts the device name: the text between the tree
// marker (when present) and "id=".
func parseDeviceName(line string) string {
	name, _, _ := strings.Cut(line, "id=")

	if _, after, ok := strings.Cut(name, "↳"); ok {
		name = after
	}

	return strings.TrimSpace(name)
}
