package model

import (
	"math"

	"github.com/matzehuels/flexdock/pkg/geom"
)

func (n *Node) layout(r geom.Rect) {
	switch n.typ {
	case TypeRow:
		n.layoutRow(r)
	case TypeTabSet:
		n.layoutTabSet(r)
	case TypeTab:
		n.layoutTab(r)
	case TypeSplitter:
		n.rect = r
	}
}

// layoutRow divides r among the draw children along the row's axis.
// Fixed children get their preferred size. Children with a preferred size
// get it when everything fits; otherwise they share the remaining space by
// weight like children without one. Truncated pixels are handed out one at
// a time to the weighted children so the sizes add up to the row's extent.
func (n *Node) layoutRow(r geom.Rect) {
	n.rect = r
	n.setVisible(!r.IsEmpty())

	o := n.Orientation()
	pixelSize := r.Size(o)
	children := n.DrawChildren()

	var totalWeight, totalPrefWeight float64
	var fixedPixels, prefPixels int
	for _, c := range children {
		pref := c.prefSize(o)
		switch {
		case c.fixed:
			if pref != nil {
				fixedPixels += *pref
			}
		case pref == nil:
			totalWeight += c.weight
		default:
			prefPixels += *pref
			totalPrefWeight += c.weight
		}
	}

	resizePreferred := false
	available := pixelSize - fixedPixels - prefPixels
	if available < 0 {
		available = max(0, pixelSize-fixedPixels)
		resizePreferred = true
		totalWeight += totalPrefWeight
	}

	weighted := func(c *Node) bool {
		return !c.fixed && (resizePreferred || c.prefSize(o) == nil)
	}

	given := 0
	numWeighted := 0
	for _, c := range children {
		pref := c.prefSize(o)
		switch {
		case c.fixed:
			c.size = 0
			if pref != nil {
				c.size = *pref
			}
		case weighted(c):
			c.size = 0
			if totalWeight > 0 {
				c.size = int(math.Floor(float64(available) * c.weight / totalWeight))
			}
			numWeighted++
		default:
			c.size = *pref
		}
		given += c.size
	}

	if numWeighted > 0 && totalWeight > 0 {
		for given < pixelSize {
			for _, c := range children {
				if given >= pixelSize {
					break
				}
				if weighted(c) {
					c.size++
					given++
				}
			}
		}
	}

	p := 0
	for _, c := range children {
		if o == geom.Horizontal {
			c.layout(geom.NewRect(r.X+p, r.Y, c.size, r.Height))
		} else {
			c.layout(geom.NewRect(r.X, r.Y+p, r.Width, c.size))
		}
		p += c.size
	}
}

// layoutTabSet splits r into the optional header, the tab strip and the
// content area shared by all tabs. A maximized tab set takes the root's
// rectangle and hides the tabs of every other tab set.
func (n *Node) layoutTabSet(r geom.Rect) {
	m := n.model
	if m.maximized == n {
		r = m.root.rect
	}
	n.rect = r
	shown := m.maximized == nil || m.maximized == n
	n.setVisible(shown && !r.IsEmpty())

	header := 0
	if n.name != "" {
		header = m.globals.TabSetHeaderHeight
	}
	strip := m.globals.TabSetTabStripHeight
	n.headerRect = geom.NewRect(r.X, r.Y, r.Width, header)
	n.tabStripRect = geom.NewRect(r.X, r.Y+header, r.Width, strip)
	n.contentRect = geom.NewRect(r.X, r.Y+header+strip, r.Width, max(0, r.Height-header-strip))

	for i, tab := range n.children {
		tab.layout(n.contentRect)
		tab.setVisible(shown && i == n.selected)
	}
}

func (n *Node) layoutTab(r geom.Rect) {
	if r == n.rect {
		return
	}
	n.rect = r
	n.fire(EventResize, EventParams{Rect: r, Visible: n.visible})
}
