package geom

// Orientation is the axis along which a row divides its space.
type Orientation int

const (
	// Horizontal rows place children left to right.
	Horizontal Orientation = iota
	// Vertical rows place children top to bottom.
	Vertical
)

// Flip returns the other orientation.
func (o Orientation) Flip() Orientation {
	if o == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}
