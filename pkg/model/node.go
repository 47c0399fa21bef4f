package model

import (
	"fmt"
	"slices"

	"github.com/matzehuels/flexdock/pkg/geom"
)

// NodeType identifies the variant of a [Node]. It never changes after the
// node is created.
type NodeType int

const (
	TypeRow NodeType = iota
	TypeTabSet
	TypeTab
	TypeSplitter
)

var nodeTypeNames = map[NodeType]string{
	TypeRow:      "row",
	TypeTabSet:   "tabset",
	TypeTab:      "tab",
	TypeSplitter: "splitter",
}

func (t NodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("NodeType(%d)", int(t))
}

// ParseNodeType converts a document type name to a NodeType. Splitters are
// never part of a document and are not accepted.
func ParseNodeType(s string) (NodeType, bool) {
	switch s {
	case "row":
		return TypeRow, true
	case "tabset":
		return TypeTabSet, true
	case "tab":
		return TypeTab, true
	}
	return 0, false
}

// Node is one element of the layout tree.
//
// A single struct carries every variant; fields that only apply to one
// variant are grouped below and ignored by the others. The parent pointer
// does not own its target: a node is owned by its parent's children slice.
type Node struct {
	typ    NodeType
	id     string
	model  *Model
	parent *Node

	children []*Node
	weight   float64
	width    *int
	height   *int
	fixed    bool

	rect      geom.Rect
	visible   bool
	listeners [eventCount]Listener

	// Row: draw-children cache rebuilt when dirty.
	dirty        bool
	drawChildren []*Node
	size         int

	// TabSet and Tab.
	name string

	// TabSet.
	selected       int
	headerRect     geom.Rect
	tabStripRect   geom.Rect
	contentRect    geom.Rect
	enableClose    *bool
	enableDrop     *bool
	enableDrag     *bool
	enableDivide   *bool
	enableMaximize *bool

	// Tab.
	icon         string
	component    string
	config       map[string]any
	enableRename *bool
	tabRect      geom.Rect
}

// ID returns the node's id, unique within its model.
func (n *Node) ID() string { return n.id }

// Type returns the node's variant.
func (n *Node) Type() NodeType { return n.typ }

// Model returns the model the node was created for.
func (n *Node) Model() *Model { return n.model }

// Parent returns the containing node, or nil for the root and for detached
// nodes.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in layout order. The slice is owned
// by the node and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Rect returns the geometry computed by the last layout.
func (n *Node) Rect() geom.Rect { return n.rect }

// Weight returns the node's share relative to its weighted siblings.
func (n *Node) Weight() float64 { return n.weight }

// Width returns the preferred width, or nil when the weight decides.
func (n *Node) Width() *int { return n.width }

// Height returns the preferred height, or nil when the weight decides.
func (n *Node) Height() *int { return n.height }

// Fixed reports whether the preferred size is always honored exactly.
func (n *Node) Fixed() bool { return n.fixed }

// Visible reports whether the node was visible after the last layout.
func (n *Node) Visible() bool { return n.visible }

// Name returns the tab label or the tab set header. A tab set with an
// empty name has no header.
func (n *Node) Name() string { return n.name }

// Index returns the node's position among its parent's children, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

// Orientation returns the axis this node splits along. The root row is
// horizontal and every level below flips it.
func (n *Node) Orientation() geom.Orientation {
	if n.parent == nil {
		return geom.Horizontal
	}
	return n.parent.Orientation().Flip()
}

// prefSize returns the preferred size along o, or nil for none. Splitters
// prefer the model's splitter size on both axes.
func (n *Node) prefSize(o geom.Orientation) *int {
	if n.typ == TypeSplitter {
		s := n.model.globals.SplitterSize
		return &s
	}
	if o == geom.Vertical {
		return n.height
	}
	return n.width
}

func (n *Node) setVisible(v bool) {
	if v == n.visible {
		return
	}
	n.visible = v
	n.fire(EventVisibility, EventParams{Rect: n.rect, Visible: v})
}

// addChild inserts child at pos, or appends it when pos is out of range,
// and returns the index it ended up at.
func (n *Node) addChild(child *Node, pos int) int {
	if pos < 0 || pos > len(n.children) {
		pos = len(n.children)
	}
	n.children = slices.Insert(n.children, pos, child)
	child.parent = n
	n.dirty = true
	if n.typ == TypeTabSet && n.selected == -1 {
		n.selected = 0
	}
	return pos
}

// removeChild detaches child and returns the index it had, or -1 when it
// is not a child of n.
func (n *Node) removeChild(child *Node) int {
	pos := slices.Index(n.children, child)
	if pos == -1 {
		return -1
	}
	n.dirty = true
	n.children = slices.Delete(n.children, pos, pos+1)
	child.parent = nil
	if n.typ == TypeTabSet {
		n.clampSelected(pos)
	}
	return pos
}

func (n *Node) removeAll() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.dirty = true
	if n.typ == TypeTabSet {
		n.selected = -1
	}
}

// clampSelected keeps the selection pointing at the same tab after the
// child at removed was taken out.
func (n *Node) clampSelected(removed int) {
	switch {
	case len(n.children) == 0:
		n.selected = -1
	case removed < n.selected:
		n.selected--
	case n.selected >= len(n.children):
		n.selected = len(n.children) - 1
	}
}

// DrawChildren returns the children in layout order. For rows, a splitter
// sits between every adjacent pair; for other nodes it is Children.
func (n *Node) DrawChildren() []*Node {
	if n.typ != TypeRow {
		return n.children
	}
	if n.dirty {
		n.drawChildren = make([]*Node, 0, max(0, 2*len(n.children)-1))
		for i, c := range n.children {
			if i > 0 {
				n.drawChildren = append(n.drawChildren, n.newSplitter(i-1))
			}
			n.drawChildren = append(n.drawChildren, c)
		}
		n.dirty = false
	}
	return n.drawChildren
}

func (n *Node) newSplitter(i int) *Node {
	return &Node{
		typ:    TypeSplitter,
		id:     fmt.Sprintf("%s/splitter/%d", n.id, i),
		model:  n.model,
		parent: n,
		fixed:  true,
	}
}

// Splitter returns the i-th splitter of a row, the one between children i
// and i+1, or nil when there is none.
func (n *Node) Splitter(i int) *Node {
	if n.typ != TypeRow || i < 0 || i >= len(n.children)-1 {
		return nil
	}
	return n.DrawChildren()[2*i+1]
}

// Selected returns the index of a tab set's visible tab, -1 when it has none.
func (n *Node) Selected() int { return n.selected }

// SelectedNode returns the visible tab of a tab set, or nil.
func (n *Node) SelectedNode() *Node {
	if n.selected < 0 || n.selected >= len(n.children) {
		return nil
	}
	return n.children[n.selected]
}

// IsMaximized reports whether this tab set fills the whole layout.
func (n *Node) IsMaximized() bool { return n.model != nil && n.model.maximized == n }

// IsActive reports whether this tab set is the model's active one.
func (n *Node) IsActive() bool { return n.model != nil && n.model.active == n }

// HeaderRect is the tab set's name band; empty when the tab set is unnamed.
func (n *Node) HeaderRect() geom.Rect { return n.headerRect }

// TabStripRect is the band holding the tab buttons.
func (n *Node) TabStripRect() geom.Rect { return n.tabStripRect }

// ContentRect is the area every tab of the tab set is laid out into.
func (n *Node) ContentRect() geom.Rect { return n.contentRect }

// EnableClose reports whether the node may be closed, falling back to the
// model-wide default for the node's type.
func (n *Node) EnableClose() bool {
	switch n.typ {
	case TypeTabSet:
		return resolve(n.enableClose, n.model.globals.TabSetEnableClose)
	case TypeTab:
		return resolve(n.enableClose, n.model.globals.TabEnableClose)
	default:
		return false
	}
}

// EnableDrag reports whether the node may be picked up and moved.
func (n *Node) EnableDrag() bool {
	switch n.typ {
	case TypeTabSet:
		return resolve(n.enableDrag, n.model.globals.TabSetEnableDrag)
	case TypeTab:
		return resolve(n.enableDrag, n.model.globals.TabEnableDrag)
	default:
		return false
	}
}

// EnableDrop reports whether a tab set accepts tabs dropped in its center.
func (n *Node) EnableDrop() bool {
	if n.typ != TypeTabSet {
		return false
	}
	return resolve(n.enableDrop, n.model.globals.TabSetEnableDrop)
}

// EnableDivide reports whether a tab set accepts panels docked at its edges.
func (n *Node) EnableDivide() bool {
	if n.typ != TypeTabSet {
		return false
	}
	return resolve(n.enableDivide, n.model.globals.TabSetEnableDivide)
}

// EnableMaximize reports whether a tab set may be maximized.
func (n *Node) EnableMaximize() bool {
	if n.typ != TypeTabSet {
		return false
	}
	return resolve(n.enableMaximize, n.model.globals.TabSetEnableMaximize)
}

// EnableRename reports whether a tab may be renamed.
func (n *Node) EnableRename() bool {
	if n.typ != TypeTab {
		return false
	}
	return resolve(n.enableRename, n.model.globals.TabEnableRename)
}

func resolve(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Icon returns a tab's icon reference.
func (n *Node) Icon() string { return n.icon }

// Component returns the key a renderer uses to build a tab's content.
func (n *Node) Component() string { return n.component }

// Config returns a tab's free-form configuration bag.
func (n *Node) Config() map[string]any { return n.config }

// TabRect returns the tab button geometry last written by SetTabRect.
func (n *Node) TabRect() geom.Rect { return n.tabRect }

// SetTabRect records where a renderer drew this tab's button. The layout
// never writes it; drop resolution reads it to place insertion carets.
func (n *Node) SetTabRect(r geom.Rect) { n.tabRect = r }

// String formats the node as "type weight id".
func (n *Node) String() string {
	return fmt.Sprintf("%s %.2f %s", n.typ, n.weight, n.id)
}
