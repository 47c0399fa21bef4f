package model

import (
	"encoding/json"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/geom"
)

// ActionType names a model mutation.
type ActionType string

const (
	ActionAddNode               ActionType = "add_node"
	ActionMoveNode              ActionType = "move_node"
	ActionDeleteTab             ActionType = "delete_tab"
	ActionRenameTab             ActionType = "rename_tab"
	ActionSelectTab             ActionType = "select_tab"
	ActionSetActiveTabSet       ActionType = "set_active_tabset"
	ActionAdjustSplit           ActionType = "adjust_split"
	ActionMaximizeToggle        ActionType = "maximize_toggle"
	ActionUpdateModelAttributes ActionType = "update_model_attributes"
	ActionUpdateNodeAttributes  ActionType = "update_node_attributes"
)

// Action is a serializable request to change a model. Which fields are
// read depends on Type.
type Action struct {
	Type       ActionType   `json:"type"`
	Node       string       `json:"node,omitempty"`
	To         string       `json:"to,omitempty"`
	Location   string       `json:"location,omitempty"`
	Index      int          `json:"index"`
	Name       string       `json:"name,omitempty"`
	Attributes Attributes   `json:"attributes,omitempty"`
	Split      *SplitResult `json:"split,omitempty"`
}

// UnmarshalJSON decodes an action, defaulting Index to -1 (append) when
// the field is absent.
func (a *Action) UnmarshalJSON(data []byte) error {
	type plain Action
	p := plain{Index: -1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Action(p)
	return nil
}

// AddNode creates the tab or tab set described by bag and docks it into
// the node toID at location. Index is the tab position for center drops,
// -1 to append.
func AddNode(bag Attributes, toID string, loc geom.DockLocation, index int) Action {
	return Action{Type: ActionAddNode, Attributes: bag, To: toID, Location: loc.String(), Index: index}
}

// MoveNode docks the existing node fromID into toID at location.
func MoveNode(fromID, toID string, loc geom.DockLocation, index int) Action {
	return Action{Type: ActionMoveNode, Node: fromID, To: toID, Location: loc.String(), Index: index}
}

// DeleteTab closes a tab.
func DeleteTab(id string) Action { return Action{Type: ActionDeleteTab, Node: id} }

// RenameTab changes a tab's label.
func RenameTab(id, name string) Action { return Action{Type: ActionRenameTab, Node: id, Name: name} }

// SelectTab makes a tab the visible one of its tab set.
func SelectTab(id string) Action { return Action{Type: ActionSelectTab, Node: id} }

// SetActiveTabSet focuses a tab set.
func SetActiveTabSet(id string) Action { return Action{Type: ActionSetActiveTabSet, Node: id} }

// AdjustSplit applies the weights computed by CalculateSplit.
func AdjustSplit(r SplitResult) Action { return Action{Type: ActionAdjustSplit, Split: &r} }

// MaximizeToggle maximizes a tab set, or restores it when it already is.
func MaximizeToggle(id string) Action { return Action{Type: ActionMaximizeToggle, Node: id} }

// UpdateModelAttributes changes model-wide attributes.
func UpdateModelAttributes(bag Attributes) Action {
	return Action{Type: ActionUpdateModelAttributes, Attributes: bag}
}

// UpdateNodeAttributes changes attributes of one node.
func UpdateNodeAttributes(id string, bag Attributes) Action {
	return Action{Type: ActionUpdateNodeAttributes, Node: id, Attributes: bag}
}

// DoAction applies a to the model. On success the change listener is
// called; on failure the model is unchanged.
func (m *Model) DoAction(a Action) error {
	var err error
	switch a.Type {
	case ActionAddNode:
		err = m.addNode(a)
	case ActionMoveNode:
		err = m.moveNode(a)
	case ActionDeleteTab:
		err = m.deleteTab(a.Node)
	case ActionRenameTab:
		err = m.renameTab(a.Node, a.Name)
	case ActionSelectTab:
		err = m.selectTab(a.Node)
	case ActionSetActiveTabSet:
		err = m.setActiveTabSet(a.Node)
	case ActionAdjustSplit:
		err = m.adjustSplit(a.Split)
	case ActionMaximizeToggle:
		err = m.maximizeToggle(a.Node)
	case ActionUpdateModelAttributes:
		err = m.updateModelAttributes(a.Attributes)
	case ActionUpdateNodeAttributes:
		err = m.updateNodeAttributes(a.Node, a.Attributes)
	default:
		err = errs.New(errs.ErrCodeInvalidInput, "unknown action %q", a.Type)
	}
	if err != nil {
		return err
	}
	if m.onChange != nil {
		m.onChange(a)
	}
	return nil
}

func parseLocation(s string) (geom.DockLocation, error) {
	if s == "" {
		return geom.DockCenter, nil
	}
	loc, ok := geom.ParseDockLocation(s)
	if !ok {
		return 0, errs.New(errs.ErrCodeInvalidInput, "unknown dock location %q", s)
	}
	return loc, nil
}

func (m *Model) addNode(a Action) error {
	loc, err := parseLocation(a.Location)
	if err != nil {
		return err
	}
	to, err := m.lookup(a.To, TypeRow, TypeTabSet)
	if err != nil {
		return err
	}
	n, err := m.buildDetached(a.Attributes)
	if err != nil {
		return err
	}
	to.drop(n, loc, a.Index)
	return nil
}

// buildDetached creates a tab or tab set from bag, failing when any id in
// it is already used by the model.
func (m *Model) buildDetached(bag Attributes) (*Node, error) {
	doc := normalize(bag).(map[string]any)
	if _, ok := doc["type"]; !ok {
		doc["type"] = TypeTab.String()
	}
	seen := make(map[string]bool, len(m.nodes))
	for id := range m.nodes {
		seen[id] = true
	}
	if err := checkIDs(doc, seen); err != nil {
		return nil, err
	}
	n, err := m.build(doc)
	if err != nil {
		return nil, err
	}
	if n.typ != TypeTab && n.typ != TypeTabSet {
		return nil, errs.New(errs.ErrCodeWrongNodeType, "cannot dock a %s", n.typ)
	}
	return n, nil
}

func (m *Model) moveNode(a Action) error {
	loc, err := parseLocation(a.Location)
	if err != nil {
		return err
	}
	from, err := m.lookup(a.Node, TypeTab, TypeTabSet)
	if err != nil {
		return err
	}
	to, err := m.lookup(a.To, TypeRow, TypeTabSet)
	if err != nil {
		return err
	}
	if to.typ == TypeRow && loc == geom.DockCenter {
		return errs.New(errs.ErrCodeInvalidInput, "rows only accept edge drops")
	}
	to.drop(from, loc, a.Index)
	return nil
}

func (m *Model) deleteTab(id string) error {
	tab, err := m.lookup(id, TypeTab)
	if err != nil {
		return err
	}
	tab.fire(EventClose, EventParams{Rect: tab.rect, Visible: tab.visible})
	if tab.parent != nil {
		tab.parent.removeChild(tab)
	}
	m.tidy()
	return nil
}

func (m *Model) renameTab(id, name string) error {
	tab, err := m.lookup(id, TypeTab)
	if err != nil {
		return err
	}
	tab.name = name
	return nil
}

func (m *Model) selectTab(id string) error {
	tab, err := m.lookup(id, TypeTab)
	if err != nil {
		return err
	}
	ts := tab.parent
	if ts == nil || ts.typ != TypeTabSet {
		return errs.New(errs.ErrCodeWrongNodeType, "tab %q is not in a tab set", id)
	}
	ts.selected = tab.Index()
	m.active = ts
	return nil
}

func (m *Model) setActiveTabSet(id string) error {
	ts, err := m.lookup(id, TypeTabSet)
	if err != nil {
		return err
	}
	m.active = ts
	return nil
}

func (m *Model) adjustSplit(r *SplitResult) error {
	if r == nil {
		return errs.New(errs.ErrCodeInvalidInput, "missing split")
	}
	n1, err := m.lookup(r.Node1)
	if err != nil {
		return err
	}
	n2, err := m.lookup(r.Node2)
	if err != nil {
		return err
	}
	if n1.parent == nil || n1.parent != n2.parent {
		return errs.New(errs.ErrCodeInvalidInput, "%q and %q are not siblings", r.Node1, r.Node2)
	}
	if r.Weight1 < 0 || r.Weight2 < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "weights must not be negative")
	}
	n1.weight = r.Weight1
	n2.weight = r.Weight2
	return nil
}

func (m *Model) maximizeToggle(id string) error {
	ts, err := m.lookup(id, TypeTabSet)
	if err != nil {
		return err
	}
	if m.maximized == ts {
		m.maximized = nil
		ts.fire(EventMaximize, EventParams{Rect: ts.rect, Visible: ts.visible, Maximized: false})
		return nil
	}
	if !ts.EnableMaximize() {
		return errs.New(errs.ErrCodeInvalidInput, "tab set %q cannot be maximized", id)
	}
	if prev := m.maximized; prev != nil {
		prev.fire(EventMaximize, EventParams{Rect: prev.rect, Visible: prev.visible, Maximized: false})
	}
	m.maximized = ts
	m.active = ts
	ts.fire(EventMaximize, EventParams{Rect: ts.rect, Visible: ts.visible, Maximized: true})
	return nil
}

func (m *Model) updateModelAttributes(bag Attributes) error {
	g := m.globals
	if err := g.Apply(normalize(bag).(map[string]any)); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid model attributes")
	}
	m.globals = g
	for _, n := range m.nodes {
		n.dirty = true
	}
	return nil
}

func (m *Model) updateNodeAttributes(id string, bag Attributes) error {
	n, err := m.lookup(id)
	if err != nil {
		return err
	}
	bag = Attributes(normalize(bag).(map[string]any))
	maximized, hasMaximized := bag["maximized"].(bool)
	active, hasActive := bag["active"].(bool)
	delete(bag, "maximized")
	delete(bag, "active")

	// Apply to a copy so a bad value leaves the node untouched.
	tmp := *n
	if err := tmp.apply(bag); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid node attributes")
	}
	n.weight, n.width, n.height, n.fixed = tmp.weight, tmp.width, tmp.height, tmp.fixed
	n.name, n.icon, n.component, n.config = tmp.name, tmp.icon, tmp.component, tmp.config
	n.enableClose, n.enableDrop, n.enableDrag = tmp.enableClose, tmp.enableDrop, tmp.enableDrag
	n.enableDivide, n.enableMaximize, n.enableRename = tmp.enableDivide, tmp.enableMaximize, tmp.enableRename
	if n.typ != TypeTabSet {
		return nil
	}
	if tmp.selected >= 0 && tmp.selected < len(n.children) {
		n.selected = tmp.selected
	}
	if hasMaximized && maximized != n.IsMaximized() {
		if err := m.maximizeToggle(n.id); err != nil {
			return err
		}
	}
	if hasActive {
		switch {
		case active:
			m.active = n
		case m.active == n:
			m.active = nil
		}
	}
	return nil
}
