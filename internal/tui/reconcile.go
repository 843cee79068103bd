package tui

import (
	"github.com/Birdy2014/einkaufszettel/internal/view"
)

type rowKind int

const (
	rowSectionHeader rowKind = iota
	rowGroupHeader
	rowItem
)

// row is one rendered line of the list view. Section and group rows are
// rebuilt on every render and carry no state; item rows point at the
// persistent node for their id.
type row struct {
	kind     rowKind
	label    string // section/group header text
	category string // group the row belongs to (rename target)
	done     bool
	node     *itemNode
}

// tree is the live view tree: the persistent item nodes plus the row list
// produced by the last reconciliation.
type tree struct {
	nodes map[int]*itemNode
	rows  []row
}

func newTree() *tree {
	return &tree{nodes: map[int]*itemNode{}}
}

// node looks up the live node for an item id.
func (t *tree) node(id int) *itemNode {
	return t.nodes[id]
}

// reconcile rebuilds the row list from a projection, reusing existing item
// nodes by id and dropping nodes whose ids are gone.
//
// Group and section rows are recreated every time: they are cheap and hold
// no interactive state. Item nodes must be reused so an open editor pinned
// to a node survives re-renders caused by other users' edits; a node (and
// any editor on it) is destroyed exactly when its id stops being visible.
// The finished row list replaces the previous one in a single assignment,
// so no observer ever sees a half-built tree.
func (t *tree) reconcile(p view.Projection) {
	next := make(map[int]*itemNode)
	var rows []row

	appendSection := func(label string, done bool, groups []view.Group) {
		rows = append(rows, row{kind: rowSectionHeader, label: label, done: done})
		for _, g := range groups {
			rows = append(rows, row{kind: rowGroupHeader, label: groupLabel(g.Category), category: g.Category, done: done})
			for _, e := range g.Entries {
				n := t.nodes[e.ID]
				if n == nil {
					n = newItemNode(e.ID, e.Item)
				} else {
					n.apply(e.ID, e.Item)
				}
				next[e.ID] = n
				rows = append(rows, row{kind: rowItem, category: g.Category, done: done, node: n})
			}
		}
	}

	appendSection("To do", false, p.Pending)
	appendSection("Done", true, p.Done)

	t.nodes = next
	t.rows = rows
}

// groupLabel renders the empty category under an explicit label.
func groupLabel(category string) string {
	if category == "" {
		return "Ohne Kategorie"
	}
	return category
}

// itemRowIndexes returns the row indexes holding item nodes, in display order.
func (t *tree) itemRowIndexes() []int {
	var idx []int
	for i, r := range t.rows {
		if r.kind == rowItem {
			idx = append(idx, i)
		}
	}
	return idx
}
