package model

// Tidy normalizes the tree: empty rows are removed, rows with a single
// child are replaced by that child, and empty closable tab sets are
// removed. The root always keeps at least one child. Running Tidy on a
// tidy tree changes nothing.
func (m *Model) Tidy() {
	m.tidy()
}

func (m *Model) tidy() {
	m.root.tidyRow()
	if len(m.root.children) == 0 {
		m.root.addChild(m.newNode(TypeTabSet, ""), -1)
	}
	m.reindex()
}

func (n *Node) tidyRow() {
	root := n.model.root
	i := 0
	for i < len(n.children) {
		child := n.children[i]
		switch child.typ {
		case TypeRow:
			child.tidyRow()
			switch len(child.children) {
			case 0:
				n.removeChild(child)
			case 1:
				n.hoist(child, i)
			default:
				i++
			}
		case TypeTabSet:
			if len(child.children) == 0 && !(n == root && len(n.children) == 1) && child.EnableClose() {
				n.removeChild(child)
			} else {
				i++
			}
		default:
			i++
		}
	}
}

// hoist replaces the single-child row at index i with its content. A row
// grandchild is flattened into its children, which share the removed row's
// weight in proportion to their own.
func (n *Node) hoist(row *Node, i int) {
	n.removeChild(row)
	sub := row.children[0]
	row.removeChild(sub)

	if sub.typ != TypeRow {
		sub.weight = row.weight
		n.addChild(sub, i)
		return
	}

	total := 0.0
	for _, c := range sub.children {
		total += c.weight
	}
	moved := append([]*Node(nil), sub.children...)
	sub.removeAll()
	for j, c := range moved {
		if total > 0 {
			c.weight = row.weight * c.weight / total
		} else {
			c.weight = row.weight / float64(len(moved))
		}
		n.addChild(c, i+j)
	}
}
