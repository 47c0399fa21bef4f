package model_test

import (
	"fmt"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
)

func Example() {
	m, err := model.FromJSON([]byte(`{
		"global": {"splitterSize": 0},
		"layout": {"type": "row", "id": "root", "children": [
			{"type": "tabset", "id": "left", "weight": 1, "children": [{"type": "tab", "id": "files"}]},
			{"type": "tabset", "id": "main", "weight": 3, "children": [{"type": "tab", "id": "editor"}]}
		]}
	}`))
	if err != nil {
		panic(err)
	}

	m.Layout(geom.NewRect(0, 0, 800, 600))
	for _, id := range []string{"left", "main"} {
		n, _ := m.NodeByID(id)
		fmt.Println(id, n.Rect())
	}
	// Output:
	// left Rect(0, 0, 200x600)
	// main Rect(200, 0, 600x600)
}

func ExampleModel_DoAction() {
	m, _ := model.FromJSON([]byte(`{"layout": {"type": "row", "id": "root", "children": [
		{"type": "tabset", "id": "ts", "children": [{"type": "tab", "id": "a"}]}
	]}}`))

	// Dock a new tab along the top edge of the whole layout.
	err := m.DoAction(model.AddNode(model.Attributes{"id": "log", "name": "Log"}, "root", geom.DockTop, -1))
	if err != nil {
		panic(err)
	}

	m.Walk(func(n *model.Node, depth int) {
		if n.Type() == model.TypeRow || n.ID() == "ts" {
			fmt.Println(depth, n.Type(), n.Weight())
		}
	})
	// Output:
	// 0 row 100
	// 1 row 100
	// 2 tabset 75
}

func ExampleCalculateSplit() {
	m, _ := model.FromJSON([]byte(`{"layout": {"type": "row", "id": "root", "children": [
		{"type": "tabset", "id": "a"}, {"type": "tabset", "id": "b"}
	]}}`))
	m.Layout(geom.NewRect(0, 0, 1008, 400))

	s, _ := m.SplitterAt("root", 0)
	lo, hi := model.SplitterBounds(s)
	r, _ := model.CalculateSplit(s, 250)
	fmt.Println(lo, hi)
	fmt.Printf("%s=%.0f %s=%.0f\n", r.Node1, r.Weight1, r.Node2, r.Weight2)
	// Output:
	// 0 1000
	// a=50 b=150
}
