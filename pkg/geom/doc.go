// Package geom provides the integer pixel geometry used by the layout engine.
//
// A [Rect] is an axis-aligned rectangle in layout pixels. [Orientation] selects
// which axis a row splits along, and [DockLocation] names the side of a
// rectangle that a dragged panel docks against.
//
// Everything in this package is a pure value type: no method mutates its
// receiver and no operation can fail. Negative widths and heights are allowed
// and simply describe an empty rectangle.
package geom
