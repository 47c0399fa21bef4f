package geom

// DockLocation names where a dragged panel lands relative to a target.
type DockLocation int

const (
	DockCenter DockLocation = iota
	DockTop
	DockBottom
	DockLeft
	DockRight
)

var dockNames = map[DockLocation]string{
	DockCenter: "center",
	DockTop:    "top",
	DockBottom: "bottom",
	DockLeft:   "left",
	DockRight:  "right",
}

func (d DockLocation) String() string {
	if s, ok := dockNames[d]; ok {
		return s
	}
	return "unknown"
}

// ParseDockLocation converts a name produced by String back to a location.
func ParseDockLocation(s string) (DockLocation, bool) {
	for loc, name := range dockNames {
		if name == s {
			return loc, true
		}
	}
	return DockCenter, false
}

// Orientation returns the axis a dock along this side splits: Left and
// Right split horizontally, Top, Bottom and Center vertically.
func (d DockLocation) Orientation() Orientation {
	if d == DockLeft || d == DockRight {
		return Horizontal
	}
	return Vertical
}

// IndexOffset is 0 when the docked panel goes before the target and 1 when
// it goes after it.
func (d DockLocation) IndexOffset() int {
	if d == DockBottom || d == DockRight {
		return 1
	}
	return 0
}

// DockRect returns the half of r on this side, or r itself for DockCenter.
func (d DockLocation) DockRect(r Rect) Rect {
	switch d {
	case DockTop:
		return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height / 2}
	case DockBottom:
		return Rect{X: r.X, Y: r.Bottom() - r.Height/2, Width: r.Width, Height: r.Height / 2}
	case DockLeft:
		return Rect{X: r.X, Y: r.Y, Width: r.Width / 2, Height: r.Height}
	case DockRight:
		return Rect{X: r.Right() - r.Width/2, Y: r.Y, Width: r.Width / 2, Height: r.Height}
	default:
		return r
	}
}

// LocationInRect classifies a point inside r: the outer quarter on each
// side maps to that side (left and right take precedence over top and
// bottom) and everything else is the center.
func LocationInRect(r Rect, x, y int) DockLocation {
	switch {
	case x < r.X+r.Width/4:
		return DockLeft
	case x > r.Right()-r.Width/4:
		return DockRight
	case y < r.Y+r.Height/4:
		return DockTop
	case y > r.Bottom()-r.Height/4:
		return DockBottom
	default:
		return DockCenter
	}
}
