package model

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// DefaultTabName labels tabs created without a name.
const DefaultTabName = "[Unnamed Tab]"

// Attributes is the flat bag a node is read from and written to. Children
// are nested under "children" as a list of bags.
type Attributes map[string]any

// attribute maps one document key onto a node field. get returns nil when
// the field has no value; set receives a value that is never nil.
type attribute struct {
	key      string
	def      any
	required bool
	get      func(n *Node) any
	set      func(n *Node, v any) error
}

var (
	rowAttributes    []attribute
	tabSetAttributes []attribute
	tabAttributes    []attribute
	globalAttributes []globalAttribute
)

func init() {
	common := []attribute{
		{key: "type", required: true, get: func(n *Node) any { return n.typ.String() }},
		{key: "id", get: func(n *Node) any { return n.id }},
		{key: "weight", def: 100.0,
			get: func(n *Node) any { return n.weight },
			set: func(n *Node, v any) error { return setFloat(&n.weight, v) }},
		{key: "width",
			get: func(n *Node) any { return optInt(n.width) },
			set: func(n *Node, v any) error { return setOptInt(&n.width, v) }},
		{key: "height",
			get: func(n *Node) any { return optInt(n.height) },
			set: func(n *Node, v any) error { return setOptInt(&n.height, v) }},
		{key: "fixed", def: false,
			get: func(n *Node) any { return n.fixed },
			set: func(n *Node, v any) error { return setBool(&n.fixed, v) }},
	}

	rowAttributes = slices.Clone(common)

	tabSetAttributes = append(slices.Clone(common),
		attribute{key: "name", def: "",
			get: func(n *Node) any { return n.name },
			set: func(n *Node, v any) error { return setString(&n.name, v) }},
		attribute{key: "selected", def: 0,
			get: func(n *Node) any { return max(0, n.selected) },
			set: func(n *Node, v any) error { return setInt(&n.selected, v) }},
		attribute{key: "maximized", def: false,
			get: func(n *Node) any { return n.IsMaximized() },
			set: func(n *Node, v any) error { return setFlag(v, func() { n.model.maximized = n }) }},
		attribute{key: "active", def: false,
			get: func(n *Node) any { return n.IsActive() },
			set: func(n *Node, v any) error { return setFlag(v, func() { n.model.active = n }) }},
		optBool("enableClose", func(n *Node) **bool { return &n.enableClose }),
		optBool("enableDrop", func(n *Node) **bool { return &n.enableDrop }),
		optBool("enableDrag", func(n *Node) **bool { return &n.enableDrag }),
		optBool("enableDivide", func(n *Node) **bool { return &n.enableDivide }),
		optBool("enableMaximize", func(n *Node) **bool { return &n.enableMaximize }),
	)

	tabAttributes = []attribute{
		common[0], common[1],
		{key: "name", def: DefaultTabName,
			get: func(n *Node) any { return n.name },
			set: func(n *Node, v any) error { return setString(&n.name, v) }},
		{key: "icon", def: "",
			get: func(n *Node) any { return n.icon },
			set: func(n *Node, v any) error { return setString(&n.icon, v) }},
		{key: "component", def: "",
			get: func(n *Node) any { return n.component },
			set: func(n *Node, v any) error { return setString(&n.component, v) }},
		{key: "config",
			get: func(n *Node) any {
				if len(n.config) == 0 {
					return nil
				}
				return maps.Clone(n.config)
			},
			set: func(n *Node, v any) error {
				m, ok := v.(map[string]any)
				if !ok {
					return fmt.Errorf("want object, got %T", v)
				}
				n.config = maps.Clone(m)
				return nil
			}},
		optBool("enableClose", func(n *Node) **bool { return &n.enableClose }),
		optBool("enableDrag", func(n *Node) **bool { return &n.enableDrag }),
		optBool("enableRename", func(n *Node) **bool { return &n.enableRename }),
	}

	globalAttributes = []globalAttribute{
		globalInt("splitterSize", func(g *Globals) *int { return &g.SplitterSize }),
		globalBool("enableEdgeDock", func(g *Globals) *bool { return &g.EnableEdgeDock }),
		globalInt("tabSetHeaderHeight", func(g *Globals) *int { return &g.TabSetHeaderHeight }),
		globalInt("tabSetTabStripHeight", func(g *Globals) *int { return &g.TabSetTabStripHeight }),
		globalBool("tabEnableClose", func(g *Globals) *bool { return &g.TabEnableClose }),
		globalBool("tabEnableDrag", func(g *Globals) *bool { return &g.TabEnableDrag }),
		globalBool("tabEnableRename", func(g *Globals) *bool { return &g.TabEnableRename }),
		globalBool("tabSetEnableClose", func(g *Globals) *bool { return &g.TabSetEnableClose }),
		globalBool("tabSetEnableDrop", func(g *Globals) *bool { return &g.TabSetEnableDrop }),
		globalBool("tabSetEnableDrag", func(g *Globals) *bool { return &g.TabSetEnableDrag }),
		globalBool("tabSetEnableDivide", func(g *Globals) *bool { return &g.TabSetEnableDivide }),
		globalBool("tabSetEnableMaximize", func(g *Globals) *bool { return &g.TabSetEnableMaximize }),
	}
}

func attributesFor(t NodeType) []attribute {
	switch t {
	case TypeRow:
		return rowAttributes
	case TypeTabSet:
		return tabSetAttributes
	case TypeTab:
		return tabAttributes
	case TypeSplitter:
		return nil
	}
	return nil
}

// Attributes returns the node's bag, children included, with every
// attribute that equals its default left out.
func (n *Node) Attributes() Attributes {
	out := Attributes{}
	for _, a := range attributesFor(n.typ) {
		v := a.get(n)
		if v == nil {
			continue
		}
		if !a.required && a.def != nil && v == a.def {
			continue
		}
		out[a.key] = v
	}
	if n.typ == TypeRow || n.typ == TypeTabSet {
		children := make([]map[string]any, 0, len(n.children))
		for _, c := range n.children {
			children = append(children, c.Attributes())
		}
		out["children"] = children
	}
	return out
}

// apply sets every known attribute present in bag. Keys that identify the
// node or its structure are skipped; unknown keys are ignored.
func (n *Node) apply(bag Attributes) error {
	for _, a := range attributesFor(n.typ) {
		if a.set == nil {
			continue
		}
		v, ok := bag[a.key]
		if !ok || v == nil {
			continue
		}
		if err := a.set(n, v); err != nil {
			return fmt.Errorf("%s %q: attribute %q: %w", n.typ, n.id, a.key, err)
		}
	}
	return nil
}

type globalAttribute struct {
	key string
	get func(g Globals) any
	set func(g *Globals, v any) error
}

func globalInt(key string, field func(*Globals) *int) globalAttribute {
	return globalAttribute{
		key: key,
		get: func(g Globals) any { return *field(&g) },
		set: func(g *Globals, v any) error { return setInt(field(g), v) },
	}
}

func globalBool(key string, field func(*Globals) *bool) globalAttribute {
	return globalAttribute{
		key: key,
		get: func(g Globals) any { return *field(&g) },
		set: func(g *Globals, v any) error { return setBool(field(g), v) },
	}
}

// Attributes returns the model-wide attributes that differ from the defaults.
func (g Globals) Attributes() Attributes {
	def := DefaultGlobals()
	out := Attributes{}
	for _, a := range globalAttributes {
		if v := a.get(g); v != a.get(def) {
			out[a.key] = v
		}
	}
	return out
}

// Apply sets every global attribute present in bag.
func (g *Globals) Apply(bag Attributes) error {
	for _, a := range globalAttributes {
		v, ok := bag[a.key]
		if !ok || v == nil {
			continue
		}
		if err := a.set(g, v); err != nil {
			return fmt.Errorf("global attribute %q: %w", a.key, err)
		}
	}
	if g.SplitterSize < 0 || g.TabSetHeaderHeight < 0 || g.TabSetTabStripHeight < 0 {
		return fmt.Errorf("sizes must not be negative")
	}
	return nil
}

func optBool(key string, field func(*Node) **bool) attribute {
	return attribute{
		key: key,
		get: func(n *Node) any {
			if p := *field(n); p != nil {
				return *p
			}
			return nil
		},
		set: func(n *Node, v any) error {
			var b bool
			if err := setBool(&b, v); err != nil {
				return err
			}
			*field(n) = &b
			return nil
		},
	}
}

func optInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func setOptInt(dst **int, v any) error {
	var i int
	if err := setInt(&i, v); err != nil {
		return err
	}
	*dst = &i
	return nil
}

func setFloat(dst *float64, v any) error {
	switch x := v.(type) {
	case float64:
		*dst = x
	case float32:
		*dst = float64(x)
	case int:
		*dst = float64(x)
	case int64:
		*dst = float64(x)
	default:
		return fmt.Errorf("want number, got %T", v)
	}
	if *dst < 0 || math.IsNaN(*dst) || math.IsInf(*dst, 0) {
		return fmt.Errorf("want a finite non-negative number, got %v", *dst)
	}
	return nil
}

func setInt(dst *int, v any) error {
	switch x := v.(type) {
	case int:
		*dst = x
	case int64:
		*dst = int(x)
	case float64:
		if x != math.Trunc(x) {
			return fmt.Errorf("want integer, got %v", x)
		}
		*dst = int(x)
	default:
		return fmt.Errorf("want integer, got %T", v)
	}
	return nil
}

func setBool(dst *bool, v any) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("want boolean, got %T", v)
	}
	*dst = b
	return nil
}

func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("want string, got %T", v)
	}
	*dst = s
	return nil
}

func setFlag(v any, on func()) error {
	var b bool
	if err := setBool(&b, v); err != nil {
		return err
	}
	if b {
		on()
	}
	return nil
}
