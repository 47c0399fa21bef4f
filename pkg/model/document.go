package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

// FromJSON loads a model from a JSON document.
func FromJSON(data []byte) (*Model, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "parse JSON layout")
	}
	return FromAttributes(doc)
}

// FromTOML loads a model from a TOML document of the same shape as the
// JSON one, with children written as arrays of tables.
func FromTOML(data []byte) (*Model, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "parse TOML layout")
	}
	return FromAttributes(doc)
}

// FromAttributes builds a model from a decoded document. Duplicate ids are
// rejected before any node is created.
func FromAttributes(doc map[string]any) (*Model, error) {
	doc = normalize(doc).(map[string]any)

	m := newEmpty()
	if g, ok := doc["global"]; ok && g != nil {
		bag, ok := g.(map[string]any)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidDocument, "global must be an object, got %T", g)
		}
		if err := m.globals.Apply(bag); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "invalid global attributes")
		}
	}

	layout, ok := doc["layout"].(map[string]any)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "document has no layout object")
	}
	if t, _ := layout["type"].(string); t != TypeRow.String() {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "layout root must be a row, got %q", t)
	}
	if err := checkIDs(layout, map[string]bool{}); err != nil {
		return nil, err
	}

	root, err := m.build(layout)
	if err != nil {
		return nil, err
	}
	m.root = root
	m.reindex()
	return m, nil
}

// checkIDs walks a document and fails on the first id seen twice.
func checkIDs(bag map[string]any, seen map[string]bool) error {
	if v, ok := bag["id"]; ok && v != nil {
		id, ok := v.(string)
		if !ok {
			return errs.New(errs.ErrCodeInvalidDocument, "id must be a string, got %T", v)
		}
		if err := errs.ValidateNodeID(id); err != nil {
			return err
		}
		if seen[id] {
			return errs.New(errs.ErrCodeDuplicateID, "duplicate id %q", id)
		}
		seen[id] = true
	}
	children, err := childBags(bag)
	if err != nil {
		return err
	}
	for _, c := range children {
		if err := checkIDs(c, seen); err != nil {
			return err
		}
	}
	return nil
}

func childBags(bag map[string]any) ([]map[string]any, error) {
	raw, ok := bag["children"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "children must be a list, got %T", raw)
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		c, ok := item.(map[string]any)
		if !ok {
			return nil, errs.New(errs.ErrCodeInvalidDocument, "child %d must be an object, got %T", i, item)
		}
		out = append(out, c)
	}
	return out, nil
}

// build creates the node described by bag and its subtree. The returned
// nodes are not yet indexed.
func (m *Model) build(bag map[string]any) (*Node, error) {
	name, _ := bag["type"].(string)
	t, ok := ParseNodeType(name)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidDocument, "unknown node type %q", name)
	}
	id, _ := bag["id"].(string)
	n := m.newNode(t, id)
	if err := n.apply(bag); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "invalid node")
	}

	children, err := childBags(bag)
	if err != nil {
		return nil, err
	}
	for _, cb := range children {
		c, err := m.build(cb)
		if err != nil {
			return nil, err
		}
		if !canContain(t, c.typ) {
			return nil, errs.New(errs.ErrCodeInvalidDocument, "%s %q cannot contain a %s", t, n.id, c.typ)
		}
		n.addChild(c, -1)
	}

	if t == TypeTabSet {
		switch {
		case len(n.children) == 0:
			n.selected = -1
		case n.selected < 0 || n.selected >= len(n.children):
			n.selected = 0
		}
	}
	return n, nil
}

func canContain(parent, child NodeType) bool {
	switch parent {
	case TypeRow:
		return child == TypeRow || child == TypeTabSet
	case TypeTabSet:
		return child == TypeTab
	case TypeTab, TypeSplitter:
		return false
	}
	return false
}

// ToAttributes returns the model as a document.
func (m *Model) ToAttributes() map[string]any {
	return map[string]any{
		"global": map[string]any(m.globals.Attributes()),
		"layout": map[string]any(m.root.Attributes()),
	}
}

// ToJSON encodes the model as an indented JSON document.
func (m *Model) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m.ToAttributes(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return data, nil
}

// ToTOML encodes the model as a TOML document.
func (m *Model) ToTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m.ToAttributes()); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// normalize converts decoder-specific shapes into the ones JSON produces:
// lists of tables become []any, named maps become map[string]any and
// integers stay integers.
func normalize(v any) any {
	switch x := v.(type) {
	case Attributes:
		return normalize(map[string]any(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []Attributes:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	default:
		return v
	}
}
