package model

import "github.com/matzehuels/flexdock/pkg/geom"

// SplitResult is the outcome of dragging a splitter: new weights for the
// two children it separates, and the pixel extents they map from.
type SplitResult struct {
	Node1       string  `json:"node1"`
	Weight1     float64 `json:"weight1"`
	PixelWidth1 int     `json:"pixelWidth1"`
	Node2       string  `json:"node2"`
	Weight2     float64 `json:"weight2"`
	PixelWidth2 int     `json:"pixelWidth2"`
}

// splitterNeighbors returns the children on either side of a splitter.
func splitterNeighbors(s *Node) (prev, next *Node, ok bool) {
	if s == nil || s.typ != TypeSplitter || s.parent == nil {
		return nil, nil, false
	}
	children := s.parent.DrawChildren()
	for i, c := range children {
		if c.id != s.id {
			continue
		}
		if i == 0 || i == len(children)-1 {
			return nil, nil, false
		}
		return children[i-1], children[i+1], true
	}
	return nil, nil, false
}

// SplitterBounds returns the range of positions a splitter can be dragged
// to: from the leading edge of the child before it to the trailing edge of
// the child after it, less the splitter's own thickness.
func SplitterBounds(s *Node) (lo, hi int) {
	prev, next, ok := splitterNeighbors(s)
	if !ok {
		return 0, 0
	}
	size := s.model.globals.SplitterSize
	if s.parent.Orientation() == geom.Horizontal {
		return prev.rect.X, next.rect.Right() - size
	}
	return prev.rect.Y, next.rect.Bottom() - size
}

// CalculateSplit maps a splitter dragged to pos onto new weights for its
// two neighbors. The pair's combined weight is preserved so siblings
// outside the pair keep their share. It reports false when the splitter
// is unknown or both neighbors would have no extent.
func CalculateSplit(s *Node, pos int) (SplitResult, bool) {
	prev, next, ok := splitterNeighbors(s)
	if !ok {
		return SplitResult{}, false
	}
	lo, hi := SplitterBounds(s)
	combined := prev.weight + next.weight

	w1 := max(0, pos-lo)
	w2 := max(0, hi-pos)
	if w1+w2 == 0 {
		return SplitResult{}, false
	}

	total := float64(w1 + w2)
	return SplitResult{
		Node1:       prev.id,
		Weight1:     float64(w1) * combined / total,
		PixelWidth1: w1,
		Node2:       next.id,
		Weight2:     float64(w2) * combined / total,
		PixelWidth2: w2,
	}, true
}
