package model

import (
	"strings"

	"github.com/google/uuid"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/geom"
)

// Globals are the model-wide attributes. Per-node permission flags that are
// left unset fall back to these.
type Globals struct {
	SplitterSize         int
	EnableEdgeDock       bool
	TabSetHeaderHeight   int
	TabSetTabStripHeight int
	TabEnableClose       bool
	TabEnableDrag        bool
	TabEnableRename      bool
	TabSetEnableClose    bool
	TabSetEnableDrop     bool
	TabSetEnableDrag     bool
	TabSetEnableDivide   bool
	TabSetEnableMaximize bool
}

// DefaultGlobals returns the attributes a model starts with.
func DefaultGlobals() Globals {
	return Globals{
		SplitterSize:         8,
		EnableEdgeDock:       true,
		TabSetHeaderHeight:   20,
		TabSetTabStripHeight: 20,
		TabEnableClose:       true,
		TabEnableDrag:        true,
		TabEnableRename:      true,
		TabSetEnableClose:    true,
		TabSetEnableDrop:     true,
		TabSetEnableDrag:     true,
		TabSetEnableDivide:   true,
		TabSetEnableMaximize: true,
	}
}

// Model owns a layout tree and the state shared by its nodes.
type Model struct {
	root      *Node
	nodes     map[string]*Node
	active    *Node
	maximized *Node
	globals   Globals
	onChange  func(Action)
}

// New returns a model whose root row holds one empty tab set.
func New() *Model {
	m := newEmpty()
	m.root = m.newNode(TypeRow, "")
	m.root.addChild(m.newNode(TypeTabSet, ""), -1)
	m.reindex()
	return m
}

func newEmpty() *Model {
	return &Model{
		nodes:   make(map[string]*Node),
		globals: DefaultGlobals(),
	}
}

// newNode creates an unattached node. An empty id is replaced by a
// generated one.
func (m *Model) newNode(t NodeType, id string) *Node {
	if id == "" {
		id = "#" + uuid.NewString()
	}
	n := &Node{
		typ:      t,
		id:       id,
		model:    m,
		weight:   100,
		selected: -1,
		dirty:    true,
	}
	if t == TypeTab {
		n.name = DefaultTabName
	}
	return n
}

// reindex rebuilds the id index from the tree and forgets active or
// maximized tab sets that are no longer part of it.
func (m *Model) reindex() {
	clear(m.nodes)
	m.Walk(func(n *Node, _ int) {
		m.nodes[n.id] = n
	})
	if m.active != nil && m.nodes[m.active.id] != m.active {
		m.active = nil
	}
	if m.maximized != nil && m.nodes[m.maximized.id] != m.maximized {
		m.maximized = nil
	}
}

// Root returns the root row.
func (m *Model) Root() *Node { return m.root }

// Globals returns the model-wide attributes.
func (m *Model) Globals() Globals { return m.globals }

// ActiveTabSet returns the tab set that last received focus, or nil.
func (m *Model) ActiveTabSet() *Node { return m.active }

// MaximizedTabSet returns the maximized tab set, or nil.
func (m *Model) MaximizedTabSet() *Node { return m.maximized }

// NodeByID looks up a node of the tree by id. Splitters are not indexed.
func (m *Model) NodeByID(id string) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// Len returns the number of nodes in the tree, splitters excluded.
func (m *Model) Len() int { return len(m.nodes) }

// SetChangeListener registers fn to be called after every action that
// DoAction applied successfully.
func (m *Model) SetChangeListener(fn func(Action)) { m.onChange = fn }

// Walk calls fn for every node in depth-first order, root first, with the
// node's depth below the root.
func (m *Model) Walk(fn func(n *Node, depth int)) {
	if m.root == nil {
		return
	}
	walk(m.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int)) {
	fn(n, depth)
	for _, c := range n.children {
		walk(c, depth+1, fn)
	}
}

// Layout computes the geometry of every node for a layout occupying r.
func (m *Model) Layout(r geom.Rect) {
	m.root.layout(r)
}

// SplitterAt returns the i-th splitter of the row with the given id.
func (m *Model) SplitterAt(rowID string, i int) (*Node, error) {
	row, err := m.lookup(rowID, TypeRow)
	if err != nil {
		return nil, err
	}
	s := row.Splitter(i)
	if s == nil {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "row %q has no splitter %d", rowID, i)
	}
	return s, nil
}

// lookup finds a node and checks its type against the allowed ones.
func (m *Model) lookup(id string, types ...NodeType) (*Node, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "no node with id %q", id)
	}
	if len(types) == 0 {
		return n, nil
	}
	for _, t := range types {
		if n.typ == t {
			return n, nil
		}
	}
	return nil, errs.New(errs.ErrCodeWrongNodeType, "node %q is a %s", id, n.typ)
}

// String dumps the tree, one node per line, indented by depth.
func (m *Model) String() string {
	var b strings.Builder
	m.Walk(func(n *Node, depth int) {
		b.WriteString(strings.Repeat("\t", depth))
		b.WriteString(n.String())
		b.WriteByte('\n')
	})
	return b.String()
}
