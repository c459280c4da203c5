package config

// PlaneGeometry describes one anode plane's TPC module borders and pixel
// grid (§4.A): three (min,max) intervals, pixel pitch, pixel counts, and the
// plane-local pixel-grid origin used by PixelCenter.
type PlaneGeometry struct {
	XBounds [2]float64 `yaml:"x_bounds"`
	YBounds [2]float64 `yaml:"y_bounds"`
	ZBounds [2]float64 `yaml:"z_bounds"`

	Pitch   float64 `yaml:"pitch"`
	Nx      int     `yaml:"nx"`
	Ny      int     `yaml:"ny"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`

	// ZAnode is the drift-axis coordinate of this plane's anode.
	ZAnode float64 `yaml:"z_anode"`
}

// GeometryConfig holds every anode plane's layout; multiple TPC modules are
// supported by having more than one entry (§4.A: "multiple TPC modules
// allowed").
type GeometryConfig struct {
	Planes []PlaneGeometry `yaml:"planes"`
}

// Plane returns the geometry for the given pixel_plane index, or a zero
// value and false if out of range.
func (g *GeometryConfig) Plane(idx int32) (PlaneGeometry, bool) {
	if idx < 0 || int(idx) >= len(g.Planes) {
		return PlaneGeometry{}, false
	}
	return g.Planes[idx], true
}
