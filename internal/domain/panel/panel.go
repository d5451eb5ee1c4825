package panel

// Panel identifies which display surface a touch device belongs to.
type Panel string

const (
	// Primary is the main OLED touch/stylus surface.
	Primary Panel = "primary"
	// Secondary is the low-power e-ink surface with its own touch controller.
	Secondary Panel = "secondary"
)

// Geometry is a display's pixel size and its offset in the virtual screen.
type Geometry struct {
	// Width is the horizontal resolution in pixels.
	Width int `json:"width"`
	// Height is the vertical resolution in pixels.
	Height int `json:"height"`
	// X is the horizontal offset within the virtual screen layout.
	X int `json:"x"`
	// Y is the vertical offset within the virtual screen layout.
	Y int `json:"y"`
}

// Clone returns a copy of the geometry.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}

	cloned := *g

	return &cloned
}

// Display is a connected output as reported by the display query tool.
type Display struct {
	// Name is the output name (e.g. "eDP-1", "DP-2").
	Name string `json:"name"`
	// Primary reports whether this output is the current primary.
	Primary bool `json:"primary"`
	// Geometry is the active mode and position, nil when the output is
	// connected but switched off.
	Geometry *Geometry `json:"geometry,omitempty"`
}

// Clone returns a copy of the display to avoid leaking internal references.
func (d *Display) Clone() *Display {
	if d == nil {
		return nil
	}

	return &Display{
		Name:     d.Name,
		Primary:  d.Primary,
		Geometry: d.Geometry.Clone(),
	}
}

// TouchDevice is a touch-capable input device with its panel assignment.
type TouchDevice struct {
	// Name is the device name as reported by the input query tool.
	Name string `json:"name"`
	// ID is the numeric device identifier used for enable/disable.
	ID string `json:"id"`
	// Panel is the surface the device is routed to, per the default
	// classification heuristic.
	Panel Panel `json:"panel"`
}

// TouchDevices groups touch devices by the panel they belong to.
type TouchDevices struct {
	// Primary holds devices on the main touch/stylus surface.
	Primary []TouchDevice `json:"primary"`
	// Secondary holds devices on the e-ink surface.
	Secondary []TouchDevice `json:"secondary"`
}

// All returns every device across both panels.
func (t *TouchDevices) All() []TouchDevice {
	if t == nil {
		return nil
	}

	all := make([]TouchDevice, 0, len(t.Primary)+len(t.Secondary))
	all = append(all, t.Primary...)
	all = append(all, t.Secondary...)

	return all
}

// ByPanel returns the devices routed to the requested panel.
func (t *TouchDevices) ByPanel(p Panel) []TouchDevice {
	if t == nil {
		return nil
	}

	if p == Secondary {
		return t.Secondary
	}

	return t.Primary
}
