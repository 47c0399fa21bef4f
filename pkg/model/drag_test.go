package model

import (
	"testing"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

func TestDragSessionMove(t *testing.T) {
	m := laidOut(t, twoTabSets)

	d, err := m.StartDrag(mustNode(t, m, "a"))
	if err != nil {
		t.Fatalf("StartDrag() error = %v", err)
	}
	if info := d.Move(752, 210); info == nil || info.Node.ID() != "ts1" {
		t.Fatalf("Move() = %+v, want ts1", info)
	}
	// Over the splitter nothing matches; the previous target is kept.
	if info := d.Move(500, 200); info == nil || info.Node.ID() != "ts1" {
		t.Fatalf("Move() over splitter = %+v, want ts1 kept", info)
	}

	ok, err := d.End()
	if err != nil || !ok {
		t.Fatalf("End() = %v, %v, want true, nil", ok, err)
	}
	if got := mustNode(t, m, "a").Parent().ID(); got != "ts1" {
		t.Errorf("parent = %s, want ts1", got)
	}

	if ok, _ := d.End(); ok {
		t.Error("second End() should do nothing")
	}
}

func TestDragSessionCancel(t *testing.T) {
	m := laidOut(t, twoTabSets)
	before := m.String()

	d, err := m.StartDrag(mustNode(t, m, "a"))
	if err != nil {
		t.Fatal(err)
	}
	d.Move(5, 200)
	d.Cancel()
	if ok, err := d.End(); ok || err != nil {
		t.Errorf("End() after Cancel = %v, %v, want false, nil", ok, err)
	}
	if m.String() != before {
		t.Errorf("tree changed after cancel:\n%s", m)
	}
}

func TestDragSessionNoTarget(t *testing.T) {
	m := laidOut(t, twoTabSets)
	d, _ := m.StartDrag(mustNode(t, m, "a"))
	d.Move(5000, 5000)
	if ok, err := d.End(); ok || err != nil {
		t.Errorf("End() = %v, %v, want false, nil", ok, err)
	}
}

func TestDragSessionNewTab(t *testing.T) {
	m := laidOut(t, twoTabSets)
	d, err := m.StartDragNew(Attributes{"id": "fresh", "name": "Fresh"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.NodeByID("fresh"); ok {
		t.Fatal("preview node should not be part of the tree")
	}

	d.Move(995, 200)
	if ok, err := d.End(); !ok || err != nil {
		t.Fatalf("End() = %v, %v", ok, err)
	}
	fresh := mustNode(t, m, "fresh")
	kids := m.Root().Children()
	if kids[len(kids)-1] != fresh.Parent() {
		t.Errorf("new tab should be docked at the right edge\n%s", m)
	}
}

func TestStartDragRefused(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Model) error
		node  string
		code  errs.Code
	}{
		{
			name:  "while maximized",
			setup: func(m *Model) error { return m.DoAction(MaximizeToggle("ts1")) },
			node:  "a",
			code:  errs.ErrCodeUnsupported,
		},
		{
			name: "tab drag disabled",
			setup: func(m *Model) error {
				return m.DoAction(UpdateNodeAttributes("a", Attributes{"enableDrag": false}))
			},
			node: "a",
			code: errs.ErrCodeInvalidInput,
		},
		{
			name: "tab set drag disabled globally",
			setup: func(m *Model) error {
				return m.DoAction(UpdateModelAttributes(Attributes{"tabSetEnableDrag": false}))
			},
			node: "ts0",
			code: errs.ErrCodeInvalidInput,
		},
		{
			name:  "rows are not draggable",
			setup: func(*Model) error { return nil },
			node:  "root",
			code:  errs.ErrCodeWrongNodeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := laidOut(t, twoTabSets)
			if err := tt.setup(m); err != nil {
				t.Fatal(err)
			}
			_, err := m.StartDrag(mustNode(t, m, tt.node))
			if !errs.Is(err, tt.code) {
				t.Errorf("StartDrag() error = %v, want %s", err, tt.code)
			}
		})
	}

	other := New()
	m := laidOut(t, twoTabSets)
	if _, err := m.StartDrag(other.Root().Children()[0]); !errs.Is(err, errs.ErrCodeNodeNotFound) {
		t.Errorf("StartDrag(foreign node) error = %v, want NODE_NOT_FOUND", err)
	}
}
