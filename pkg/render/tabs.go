package render

import (
	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
)

// DefaultTabWidth is the button width used when none is configured.
const DefaultTabWidth = 100

// AssignTabRects lays out one button per tab, left to right, inside each
// tab set's strip. Buttons shrink evenly when the strip is too narrow for
// tabWidth each. It must run after Layout and before drop-target search
// in the strip, which uses the button rectangles.
func AssignTabRects(m *model.Model, tabWidth int) {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	m.Walk(func(n *model.Node, _ int) {
		if n.Type() != model.TypeTabSet {
			return
		}
		tabs := n.Children()
		strip := n.TabStripRect()
		if len(tabs) == 0 {
			return
		}
		w := tabWidth
		if len(tabs)*w > strip.Width {
			w = max(1, strip.Width/len(tabs))
		}
		for i, tab := range tabs {
			r := geom.NewRect(strip.X+i*w, strip.Y, w, strip.Height)
			tab.SetTabRect(r.Intersect(strip))
		}
	})
}
