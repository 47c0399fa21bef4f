package geom

import "fmt"

// Rect is an axis-aligned rectangle with integer pixel coordinates.
// X and Y are the top-left corner; Width and Height are the dimensions.
type Rect struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// NewRect creates a Rect with the given position and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point (x, y) lies inside the rectangle.
// All four edges count as inside, so a pointer resting on a boundary
// still hits the rectangle. An empty rectangle contains no points.
func (r Rect) Contains(x, y int) bool {
	if r.IsEmpty() {
		return false
	}
	return r.X <= x && x <= r.Right() && r.Y <= y && y <= r.Bottom()
}

// Size returns the extent of the rectangle along the given axis:
// the width for Horizontal and the height for Vertical.
func (r Rect) Size(o Orientation) int {
	if o == Vertical {
		return r.Height
	}
	return r.Width
}

// Equals reports whether both rectangles have the same position and size.
func (r Rect) Equals(other Rect) bool { return r == other }

// Intersect returns the overlap of two rectangles, or the zero Rect if
// they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())
	if right <= x || bottom <= y {
		return Rect{}
	}
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// CenterInRect returns a copy of r with the same size, positioned so that
// its center matches the center of outer.
func (r Rect) CenterInRect(outer Rect) Rect {
	r.X = outer.X + (outer.Width-r.Width)/2
	r.Y = outer.Y + (outer.Height-r.Height)/2
	return r
}

// String formats the rectangle as "Rect(x, y, w x h)".
func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d, %d, %dx%d)", r.X, r.Y, r.Width, r.Height)
}
