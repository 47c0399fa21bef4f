package model

import "github.com/matzehuels/flexdock/pkg/geom"

// Frame is a snapshot of one node's geometry and state after layout.
type Frame struct {
	ID        string    `json:"id" bson:"id"`
	Type      string    `json:"type" bson:"type"`
	Parent    string    `json:"parent,omitempty" bson:"parent,omitempty"`
	Depth     int       `json:"depth" bson:"depth"`
	Index     int       `json:"index" bson:"index"`
	Rect      geom.Rect `json:"rect" bson:"rect"`
	Visible   bool      `json:"visible" bson:"visible"`
	Weight    float64   `json:"weight,omitempty" bson:"weight,omitempty"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Selected  bool      `json:"selected,omitempty" bson:"selected,omitempty"`
	Active    bool      `json:"active,omitempty" bson:"active,omitempty"`
	Maximized bool      `json:"maximized,omitempty" bson:"maximized,omitempty"`
	TabRect   geom.Rect `json:"tabRect,omitzero" bson:"tabRect,omitempty"`
	Header    geom.Rect `json:"header,omitzero" bson:"header,omitempty"`
	Strip     geom.Rect `json:"strip,omitzero" bson:"strip,omitempty"`
}

// Frames returns the geometry of every node in draw order, splitters
// included. Index is the position among the parent's draw children.
func (m *Model) Frames() []Frame {
	frames := make([]Frame, 0, len(m.nodes)*2)
	var visit func(n *Node, depth, index int)
	visit = func(n *Node, depth, index int) {
		f := Frame{
			ID:      n.id,
			Type:    n.typ.String(),
			Depth:   depth,
			Index:   index,
			Rect:    n.rect,
			Visible: n.visible,
			Weight:  n.weight,
			Name:    n.name,
		}
		if n.parent != nil {
			f.Parent = n.parent.id
		}
		switch n.typ {
		case TypeSplitter:
			f.Visible = !n.rect.IsEmpty()
			f.Weight = 0
		case TypeTabSet:
			f.Active = n.IsActive()
			f.Maximized = n.IsMaximized()
			f.Strip = n.tabStripRect
			if n.name != "" {
				f.Header = n.headerRect
			}
		case TypeTab:
			f.Selected = n.parent != nil && n.parent.typ == TypeTabSet && n.parent.SelectedNode() == n
			f.TabRect = n.tabRect
			f.Weight = 0
		case TypeRow:
		}
		frames = append(frames, f)
		for i, c := range n.DrawChildren() {
			visit(c, depth+1, i)
		}
	}
	visit(m.root, 0, 0)
	return frames
}
