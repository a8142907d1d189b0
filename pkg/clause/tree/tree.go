// Package tree builds the clause hierarchy from flat catalogue records.
package tree

import (
	"sort"

	"tableflip.dev/a11yreq/pkg/clause"
)

// Node is one position in the clause hierarchy. Number is the normalized
// dotted path; Clause holds the record found at that path.
type Node struct {
	Number string
	Clause clause.Record
	// Placeholder is set when no record exists for this path and the node
	// was created only to hold descendants.
	Placeholder bool

	Parent   *Node
	Children []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Informative reports whether the node is an informative leaf, which mirrors
// its parent's selection.
func (n *Node) Informative() bool { return n.IsLeaf() && n.Clause.Informative }

// Depth returns the number of levels from the top of the forest, starting at 1.
func (n *Node) Depth() int {
	depth := 0
	for cur := n; cur != nil; cur = cur.Parent {
		depth++
	}
	return depth
}

type buildNode struct {
	node     *Node
	children map[string]*buildNode
}

// Build converts flat records into a forest ordered by natural clause number
// order. Missing ancestors become placeholder nodes and duplicate numbers keep
// the last record.
func Build(records []clause.Record) []*Node {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]clause.Record, len(records))
	copy(sorted, records)
	clause.SortRecords(sorted)

	arena := make(map[string]*buildNode, len(sorted))
	roots := make(map[string]*buildNode)

	for _, rec := range sorted {
		chain := clause.Ancestors(rec.Number)
		var parent *buildNode
		for _, path := range chain {
			current, ok := arena[path]
			if !ok {
				current = &buildNode{
					node: &Node{
						Number:      path,
						Clause:      clause.Record{Number: path},
						Placeholder: true,
					},
					children: make(map[string]*buildNode),
				}
				arena[path] = current
				if parent == nil {
					roots[path] = current
				} else {
					parent.children[path] = current
				}
			}
			parent = current
		}
		parent.node.Clause = rec
		parent.node.Placeholder = false
	}

	return materialize(roots, nil)
}

func materialize(level map[string]*buildNode, parent *Node) []*Node {
	if len(level) == 0 {
		return nil
	}
	nodes := make([]*Node, 0, len(level))
	for _, b := range level {
		b.node.Parent = parent
		b.node.Children = materialize(b.children, b.node)
		nodes = append(nodes, b.node)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return clause.Compare(nodes[i].Number, nodes[j].Number) < 0
	})
	return nodes
}

// Walk visits every node depth first in display order. Returning false from
// fn skips the node's children.
func Walk(forest []*Node, fn func(*Node) bool) {
	for _, n := range forest {
		if !fn(n) {
			continue
		}
		Walk(n.Children, fn)
	}
}

// Index maps every node number in the forest to its node.
func Index(forest []*Node) map[string]*Node {
	idx := make(map[string]*Node)
	Walk(forest, func(n *Node) bool {
		idx[n.Number] = n
		return true
	})
	return idx
}

// Leaves returns every leaf in display order.
func Leaves(forest []*Node) []*Node {
	var leaves []*Node
	Walk(forest, func(n *Node) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

// Depth returns the depth of the deepest node in the forest.
func Depth(forest []*Node) int {
	max := 0
	for _, n := range forest {
		if d := 1 + Depth(n.Children); d > max {
			max = d
		}
	}
	return max
}

// Records returns the non-placeholder records of the forest in display order.
func Records(forest []*Node) []clause.Record {
	var out []clause.Record
	Walk(forest, func(n *Node) bool {
		if !n.Placeholder {
			out = append(out, n.Clause)
		}
		return true
	})
	return out
}
