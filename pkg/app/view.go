package app

import (
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/selection"
)

// NodeView is one node of the clause tree with its selection state, shaped
// for JSON and templates.
type NodeView struct {
	Number      string          `json:"number"`
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name,omitempty"`
	Placeholder bool            `json:"placeholder,omitempty"`
	Informative bool            `json:"informative,omitempty"`
	Depth       int             `json:"depth"`
	State       selection.State `json:"state"`
	Children    []NodeView      `json:"children,omitempty"`
}

// Leaf reports whether the node has no children.
func (n NodeView) Leaf() bool { return len(n.Children) == 0 }

// Nodes converts a controller's forest and states to views.
func Nodes(c *selection.Controller, lang clause.Lang) []NodeView {
	return nodeViews(c.Forest(), c.States(), lang)
}

func nodeViews(nodes []*tree.Node, states map[string]selection.State, lang clause.Lang) []NodeView {
	out := make([]NodeView, 0, len(nodes))
	for _, n := range nodes {
		v := NodeView{
			Number:      n.Number,
			Placeholder: n.Placeholder,
			Informative: n.Informative(),
			Depth:       n.Depth(),
			State:       states[n.Number],
		}
		if !n.Placeholder {
			v.ID = n.Clause.ID
			v.Name = n.Clause.LocalName(lang)
		}
		if len(n.Children) > 0 {
			v.Children = nodeViews(n.Children, states, lang)
		}
		out = append(out, v)
	}
	return out
}
