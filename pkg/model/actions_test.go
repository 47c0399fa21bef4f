package model

import (
	"encoding/json"
	"testing"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/geom"
)

func TestDeleteTab(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	closed := 0
	mustNode(t, m, "c").SetEventListener(EventClose, func(EventParams) { closed++ })

	if err := m.DoAction(DeleteTab("c")); err != nil {
		t.Fatalf("DeleteTab error = %v", err)
	}
	if closed != 1 {
		t.Errorf("close fired %d times, want 1", closed)
	}
	if _, ok := m.NodeByID("ts1"); ok {
		t.Error("emptied tab set should be tidied away")
	}

	if err := m.DoAction(DeleteTab("ts0")); !errs.Is(err, errs.ErrCodeWrongNodeType) {
		t.Errorf("DeleteTab(tabset) error = %v, want WRONG_NODE_TYPE", err)
	}
}

func TestDeleteLastTabKeepsTabSet(t *testing.T) {
	m := mustLoad(t, singleTabSet)
	if err := m.DoAction(DeleteTab("a")); err != nil {
		t.Fatal(err)
	}
	ts := mustNode(t, m, "ts0")
	if len(ts.Children()) != 0 || ts.Selected() != -1 {
		t.Errorf("tab set = %d children selected %d, want empty with -1", len(ts.Children()), ts.Selected())
	}
}

func TestSelectedClamping(t *testing.T) {
	m := mustLoad(t, `{"layout": {"type": "row", "children": [
		{"type": "tabset", "id": "ts", "selected": 2, "children": [
			{"type": "tab", "id": "a"}, {"type": "tab", "id": "b"}, {"type": "tab", "id": "c"}]},
		{"type": "tabset", "children": [{"type": "tab"}]}]}}`)
	ts := mustNode(t, m, "ts")

	steps := []struct {
		remove   string
		selected string
	}{
		{"c", "b"},
		{"a", "b"},
		{"b", ""},
	}
	for _, s := range steps {
		if err := m.DoAction(DeleteTab(s.remove)); err != nil {
			t.Fatal(err)
		}
		got := ""
		if n := ts.SelectedNode(); n != nil {
			got = n.ID()
		}
		if got != s.selected {
			t.Errorf("after deleting %s selected = %q, want %q", s.remove, got, s.selected)
		}
	}
	if ts.Selected() != -1 {
		t.Errorf("Selected() = %d, want -1", ts.Selected())
	}
}

func TestRenameAndSelect(t *testing.T) {
	m := mustLoad(t, twoTabSets)

	if err := m.DoAction(RenameTab("b", "Build")); err != nil {
		t.Fatal(err)
	}
	if got := mustNode(t, m, "b").Name(); got != "Build" {
		t.Errorf("Name() = %q, want Build", got)
	}

	if err := m.DoAction(SelectTab("b")); err != nil {
		t.Fatal(err)
	}
	ts0 := mustNode(t, m, "ts0")
	if ts0.Selected() != 1 || m.ActiveTabSet() != ts0 {
		t.Errorf("Selected() = %d active = %v, want 1 and ts0", ts0.Selected(), m.ActiveTabSet())
	}

	if err := m.DoAction(SetActiveTabSet("ts1")); err != nil {
		t.Fatal(err)
	}
	if !mustNode(t, m, "ts1").IsActive() {
		t.Error("ts1 should be active")
	}
}

func TestEventsFireOncePerChange(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	a := mustNode(t, m, "a")
	var visibility, resize []EventParams
	a.SetEventListener(EventVisibility, func(p EventParams) { visibility = append(visibility, p) })
	a.SetEventListener(EventResize, func(p EventParams) { resize = append(resize, p) })

	r := geom.NewRect(0, 0, 1000, 400)
	m.Layout(r)
	m.Layout(r)
	if len(visibility) != 1 || !visibility[0].Visible {
		t.Errorf("visibility events = %+v, want one visible", visibility)
	}
	if len(resize) != 1 || resize[0].Rect != geom.NewRect(0, 20, 496, 380) {
		t.Errorf("resize events = %+v, want one with the content rect", resize)
	}

	m.Layout(geom.NewRect(0, 0, 800, 400))
	if len(resize) != 2 {
		t.Errorf("resize events = %d, want 2 after the size changed", len(resize))
	}

	if err := m.DoAction(SelectTab("b")); err != nil {
		t.Fatal(err)
	}
	m.Layout(r)
	if len(visibility) != 2 || visibility[1].Visible {
		t.Errorf("visibility events = %+v, want a second hidden one", visibility)
	}

	a.RemoveEventListener(EventResize)
	m.Layout(geom.NewRect(0, 0, 640, 480))
	if len(resize) != 3 {
		t.Errorf("resize events = %d, want 3", len(resize))
	}
}

func TestMaximizeToggle(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	var events []bool
	ts0 := mustNode(t, m, "ts0")
	ts0.SetEventListener(EventMaximize, func(p EventParams) { events = append(events, p.Maximized) })

	for range 2 {
		if err := m.DoAction(MaximizeToggle("ts0")); err != nil {
			t.Fatal(err)
		}
	}
	if len(events) != 2 || !events[0] || events[1] {
		t.Errorf("maximize events = %v, want [true false]", events)
	}
	if m.MaximizedTabSet() != nil {
		t.Error("tab set should be restored")
	}

	if err := m.DoAction(MaximizeToggle("ts0")); err != nil {
		t.Fatal(err)
	}
	if err := m.DoAction(MaximizeToggle("ts1")); err != nil {
		t.Fatal(err)
	}
	if m.MaximizedTabSet() != mustNode(t, m, "ts1") || ts0.IsMaximized() {
		t.Error("only one tab set may be maximized")
	}
	if len(events) != 4 || events[3] {
		t.Errorf("maximize events = %v, want ts0 restored last", events)
	}

	if err := m.DoAction(UpdateNodeAttributes("ts0", Attributes{"enableMaximize": false})); err != nil {
		t.Fatal(err)
	}
	if err := m.DoAction(MaximizeToggle("ts0")); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("MaximizeToggle error = %v, want INVALID_INPUT", err)
	}
}

func TestAddNodeDuplicateID(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	err := m.DoAction(AddNode(Attributes{"type": "tab", "id": "a"}, "ts1", geom.DockCenter, -1))
	if !errs.Is(err, errs.ErrCodeDuplicateID) {
		t.Errorf("AddNode error = %v, want DUPLICATE_ID", err)
	}

	err = m.DoAction(AddNode(Attributes{"type": "row"}, "ts1", geom.DockCenter, -1))
	if !errs.Is(err, errs.ErrCodeWrongNodeType) {
		t.Errorf("AddNode(row) error = %v, want WRONG_NODE_TYPE", err)
	}
}

func TestAddNodeTabSet(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	bag := Attributes{"type": "tabset", "id": "extra", "children": []any{
		map[string]any{"type": "tab", "id": "x"},
	}}
	if err := m.DoAction(AddNode(bag, "ts1", geom.DockTop, -1)); err != nil {
		t.Fatalf("AddNode error = %v", err)
	}
	extra := mustNode(t, m, "extra")
	if extra.Parent() == m.Root() || extra.Parent().Type() != TypeRow {
		t.Errorf("extra parent = %v, want a new column row", extra.Parent())
	}
	if m.ActiveTabSet() != extra {
		t.Error("docked tab set should become active")
	}
}

func TestUpdateAttributes(t *testing.T) {
	m := mustLoad(t, twoTabSets)

	if err := m.DoAction(UpdateModelAttributes(Attributes{"splitterSize": 2})); err != nil {
		t.Fatal(err)
	}
	m.Layout(geom.NewRect(0, 0, 1000, 400))
	if got := mustNode(t, m, "ts1").Rect().X; got != 501 {
		t.Errorf("ts1 x = %d, want 501", got)
	}

	if err := m.DoAction(UpdateModelAttributes(Attributes{"splitterSize": "wide"})); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("bad global error = %v, want INVALID_INPUT", err)
	}
	if m.Globals().SplitterSize != 2 {
		t.Errorf("SplitterSize = %d, want 2 after failed update", m.Globals().SplitterSize)
	}

	if err := m.DoAction(UpdateNodeAttributes("ts0", Attributes{"weight": 30, "name": 5})); err == nil {
		t.Error("bad node attribute should fail")
	}
	if w := mustNode(t, m, "ts0").Weight(); w != 50 {
		t.Errorf("weight = %v, want 50 after failed update", w)
	}

	if err := m.DoAction(UpdateNodeAttributes("ts0", Attributes{"weight": 30, "name": "Left"})); err != nil {
		t.Fatal(err)
	}
	ts0 := mustNode(t, m, "ts0")
	if ts0.Weight() != 30 || ts0.Name() != "Left" {
		t.Errorf("ts0 = %s %q, want weight 30 named Left", ts0, ts0.Name())
	}
}

func TestChangeListener(t *testing.T) {
	m := mustLoad(t, twoTabSets)
	var seen []ActionType
	m.SetChangeListener(func(a Action) { seen = append(seen, a.Type) })

	_ = m.DoAction(SelectTab("b"))
	_ = m.DoAction(SelectTab("missing"))
	_ = m.DoAction(RenameTab("a", "Alpha"))

	if len(seen) != 2 || seen[0] != ActionSelectTab || seen[1] != ActionRenameTab {
		t.Errorf("change listener saw %v, want [select_tab rename_tab]", seen)
	}
}

func TestActionJSON(t *testing.T) {
	var a Action
	if err := json.Unmarshal([]byte(`{"type": "move_node", "node": "a", "to": "ts1", "location": "center"}`), &a); err != nil {
		t.Fatal(err)
	}
	if a.Index != -1 {
		t.Errorf("Index = %d, want -1 when absent", a.Index)
	}

	m := mustLoad(t, twoTabSets)
	if err := m.DoAction(a); err != nil {
		t.Fatal(err)
	}
	if got := mustNode(t, m, "a").Parent().ID(); got != "ts1" {
		t.Errorf("parent = %s, want ts1", got)
	}

	if err := m.DoAction(Action{Type: "explode"}); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown action error = %v, want INVALID_INPUT", err)
	}
}
