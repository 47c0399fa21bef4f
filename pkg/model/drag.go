package model

import (
	errs "github.com/matzehuels/flexdock/pkg/errors"
)

// DragSession tracks one drag gesture. It holds no timers or goroutines:
// the caller feeds pointer positions to Move and finishes with End or
// Cancel.
type DragSession struct {
	model  *Model
	node   *Node
	bag    Attributes
	isNew  bool
	target *DropInfo
	done   bool
}

// StartDrag begins dragging an existing tab or tab set. Dragging is refused
// while a tab set is maximized and for nodes that disable it.
func (m *Model) StartDrag(n *Node) (*DragSession, error) {
	if n == nil || n.model != m {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "node is not part of this model")
	}
	if n.typ != TypeTab && n.typ != TypeTabSet {
		return nil, errs.New(errs.ErrCodeWrongNodeType, "cannot drag a %s", n.typ)
	}
	if err := m.checkDrag(); err != nil {
		return nil, err
	}
	if !n.EnableDrag() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "%s %q cannot be dragged", n.typ, n.id)
	}
	return &DragSession{model: m, node: n}, nil
}

// StartDragNew begins dragging a tab or tab set that does not exist yet.
// It is created from bag when the drag ends on a target.
func (m *Model) StartDragNew(bag Attributes) (*DragSession, error) {
	if err := m.checkDrag(); err != nil {
		return nil, err
	}
	n, err := m.buildDetached(bag)
	if err != nil {
		return nil, err
	}
	return &DragSession{model: m, node: n, bag: bag, isNew: true}, nil
}

func (m *Model) checkDrag() error {
	if m.maximized != nil {
		return errs.New(errs.ErrCodeUnsupported, "cannot drag while tab set %q is maximized", m.maximized.id)
	}
	return nil
}

// Node returns the node being dragged. For a new node it is a detached
// preview that is not part of the tree.
func (d *DragSession) Node() *Node { return d.node }

// Move resolves the drop target under (x, y). A position over nothing keeps
// the previous target, so the returned value is the drop End would perform.
func (d *DragSession) Move(x, y int) *DropInfo {
	if d.done {
		return nil
	}
	if info := d.model.FindDropTarget(d.node, x, y); info != nil {
		d.target = info
	}
	return d.target
}

// Target returns the drop End would perform, or nil.
func (d *DragSession) Target() *DropInfo { return d.target }

// End performs the remembered drop. It reports false when the drag ended
// without ever reaching a target.
func (d *DragSession) End() (bool, error) {
	if d.done {
		return false, nil
	}
	d.done = true
	t := d.target
	if t == nil {
		return false, nil
	}
	var a Action
	if d.isNew {
		a = AddNode(d.bag, t.Node.id, t.Location, t.Index)
	} else {
		a = MoveNode(d.node.id, t.Node.id, t.Location, t.Index)
	}
	if err := d.model.DoAction(a); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel abandons the drag without changing the model.
func (d *DragSession) Cancel() {
	d.done = true
	d.target = nil
}
