package model

import (
	"github.com/matzehuels/flexdock/pkg/geom"
)

// Outline classes tell a renderer how to draw a drop preview.
const (
	ClassOutline     = "outline_rect"
	ClassOutlineEdge = "outline_rect_edge"
)

const (
	edgeMargin = 10 // depth of the root's edge docking band
	edgeHalf   = 50 // half the length of the band, centered on the edge
)

// DropInfo describes where a dragged node would land.
type DropInfo struct {
	Node      *Node
	Rect      geom.Rect
	Location  geom.DockLocation
	Index     int
	ClassName string
}

// FindDropTarget resolves the drop target under (x, y) for drag, using the
// geometry of the last layout. It returns nil when nothing accepts the drop.
func (m *Model) FindDropTarget(drag *Node, x, y int) *DropInfo {
	if drag == nil {
		return nil
	}
	return m.root.findDropTarget(drag, x, y)
}

func (n *Node) findDropTarget(drag *Node, x, y int) *DropInfo {
	if !n.rect.Contains(x, y) {
		return nil
	}
	if info := n.canDrop(drag, x, y); info != nil {
		return info
	}
	for _, c := range n.children {
		if info := c.findDropTarget(drag, x, y); info != nil {
			return info
		}
	}
	return nil
}

func (n *Node) canDrop(drag *Node, x, y int) *DropInfo {
	switch n.typ {
	case TypeRow:
		return n.canDropRow(x, y)
	case TypeTabSet:
		info := n.canDropTabSet(drag, x, y)
		if info == nil || !canDockInto(drag, info) {
			return nil
		}
		return info
	case TypeTab, TypeSplitter:
		return nil
	}
	return nil
}

// canDropRow offers edge docking on the root: a thin band along each side,
// centered on that side. The outline previews half of the docked half.
func (n *Node) canDropRow(x, y int) *DropInfo {
	if n.parent != nil || !n.model.globals.EnableEdgeDock {
		return nil
	}
	r := n.rect
	midY := r.Y + r.Height/2
	midX := r.X + r.Width/2
	nearMidY := y > midY-edgeHalf && y < midY+edgeHalf
	nearMidX := x > midX-edgeHalf && x < midX+edgeHalf

	var loc geom.DockLocation
	switch {
	case x < r.X+edgeMargin && nearMidY:
		loc = geom.DockLeft
	case x > r.Right()-edgeMargin && nearMidY:
		loc = geom.DockRight
	case y < r.Y+edgeMargin && nearMidX:
		loc = geom.DockTop
	case y > r.Bottom()-edgeMargin && nearMidX:
		loc = geom.DockBottom
	default:
		return nil
	}

	outline := loc.DockRect(r)
	switch loc {
	case geom.DockLeft:
		outline.Width /= 2
	case geom.DockRight:
		outline.Width /= 2
		outline.X += outline.Width
	case geom.DockTop:
		outline.Height /= 2
	case geom.DockBottom:
		outline.Height /= 2
		outline.Y += outline.Height
	}
	return &DropInfo{Node: n, Rect: outline, Location: loc, Index: -1, ClassName: ClassOutlineEdge}
}

func (n *Node) canDropTabSet(drag *Node, x, y int) *DropInfo {
	switch {
	case drag == n:
		return &DropInfo{Node: n, Rect: n.tabStripRect, Location: geom.DockCenter, Index: -1, ClassName: ClassOutline}
	case n.contentRect.Contains(x, y):
		loc := geom.LocationInRect(n.contentRect, x, y)
		return &DropInfo{Node: n, Rect: loc.DockRect(n.rect), Location: loc, Index: -1, ClassName: ClassOutline}
	case len(n.children) > 0 && n.tabStripRect.Contains(x, y):
		return n.tabInsertion(x)
	}
	return nil
}

// tabInsertion places a caret before the first tab whose center lies to
// the right of x, or after the last tab.
func (n *Node) tabInsertion(x int) *DropInfo {
	first := n.children[0].tabRect
	y, h := first.Y, first.Height
	p := n.tabStripRect.X
	var r geom.Rect
	for i, tab := range n.children {
		r = tab.tabRect
		center := r.X + r.Width/2
		if x >= p && x < center {
			return &DropInfo{Node: n, Rect: geom.NewRect(r.X-2, y, 3, h), Location: geom.DockCenter, Index: i, ClassName: ClassOutline}
		}
		p = center
	}
	return &DropInfo{Node: n, Rect: geom.NewRect(r.Right()-2, y, 3, h), Location: geom.DockCenter, Index: len(n.children), ClassName: ClassOutline}
}

// canDockInto applies the target's docking permissions. A named tab set is
// never merged into another tab set's center since its header would be lost.
func canDockInto(drag *Node, info *DropInfo) bool {
	target := info.Node
	switch target.typ {
	case TypeTabSet:
		if info.Location == geom.DockCenter {
			if !target.EnableDrop() {
				return false
			}
			if drag.typ == TypeTabSet && drag.name != "" {
				return false
			}
			return true
		}
		return target.EnableDivide()
	case TypeRow, TypeTab, TypeSplitter:
		return true
	}
	return true
}

// drop moves drag into n at loc. The tree is tidied afterwards.
func (n *Node) drop(drag *Node, loc geom.DockLocation, index int) {
	switch n.typ {
	case TypeRow:
		n.dropRow(drag, loc)
	case TypeTabSet:
		n.dropTabSet(drag, loc, index)
	case TypeTab, TypeSplitter:
		return
	}
	n.model.tidy()
}

// wrap returns drag itself when it is a tab set, or a new tab set holding it.
func (m *Model) wrap(drag *Node) *Node {
	if drag.typ == TypeTabSet {
		return drag
	}
	ts := m.newNode(TypeTabSet, "")
	ts.addChild(drag, -1)
	return ts
}

func detach(n *Node) (parent *Node, index int) {
	parent = n.parent
	if parent == nil {
		return nil, -1
	}
	return parent, parent.removeChild(n)
}

func (n *Node) dropRow(drag *Node, loc geom.DockLocation) {
	m := n.model
	if old, _ := detach(drag); old != nil && old.typ == TypeTabSet {
		old.selected = 0
		if len(old.children) == 0 {
			old.selected = -1
		}
	}

	ts := m.wrap(drag)

	total := 0.0
	for _, c := range n.children {
		total += c.weight
	}
	if total == 0 {
		total = 100
	}
	ts.weight = total / 3

	switch loc {
	case geom.DockLeft:
		n.addChild(ts, 0)
	case geom.DockRight:
		n.addChild(ts, -1)
	case geom.DockTop, geom.DockBottom:
		vrow := m.newNode(TypeRow, "")
		hrow := m.newNode(TypeRow, "")
		hrow.weight = 75
		ts.weight = 25
		moved := append([]*Node(nil), n.children...)
		n.removeAll()
		for _, c := range moved {
			hrow.addChild(c, -1)
		}
		if loc == geom.DockTop {
			vrow.addChild(ts, -1)
			vrow.addChild(hrow, -1)
		} else {
			vrow.addChild(hrow, -1)
			vrow.addChild(ts, -1)
		}
		n.addChild(vrow, -1)
	case geom.DockCenter:
		n.addChild(ts, -1)
	}

	m.active = ts
}

func (n *Node) dropTabSet(drag *Node, loc geom.DockLocation, index int) {
	if drag == n {
		return
	}
	m := n.model

	from, fromIndex := detach(drag)
	if drag.typ == TypeTab && from == n && fromIndex < index && index > 0 {
		index--
	}

	if loc == geom.DockCenter {
		pos := index
		if pos < 0 || pos > len(n.children) {
			pos = len(n.children)
		}
		if drag.typ == TypeTab {
			n.addChild(drag, pos)
			n.selected = pos
		} else {
			moved := append([]*Node(nil), drag.children...)
			drag.removeAll()
			for _, c := range moved {
				n.addChild(c, pos)
				pos++
			}
		}
		m.active = n
		return
	}

	ts := m.wrap(drag)
	row := n.parent
	if row == nil {
		return
	}
	pos := n.Index()
	if row.Orientation() == loc.Orientation() {
		ts.weight = n.weight / 2
		n.weight /= 2
		row.addChild(ts, pos+loc.IndexOffset())
	} else {
		row.removeChild(n)
		nrow := m.newNode(TypeRow, "")
		nrow.weight = n.weight
		n.weight = 50
		ts.weight = 50
		nrow.addChild(n, -1)
		nrow.addChild(ts, loc.IndexOffset())
		row.addChild(nrow, pos)
	}
	m.active = ts
}
