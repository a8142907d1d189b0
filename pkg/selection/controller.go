package selection

import (
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
)

// Rule maps wizard answers to clauses. A rule applies when all of its
// questions were answered and retracts when none were.
type Rule struct {
	Questions []string `json:"questions" yaml:"questions"`
	Clauses   []string `json:"clauses" yaml:"clauses"`
}

// Controller owns the selection state of one session over a clause forest.
// It is not safe for concurrent use; each session gets its own controller.
//
// Ids accepted by every operation may be clause numbers or record ids.
// Unknown ids are ignored.
type Controller struct {
	forest []*tree.Node
	nodes  map[string]*tree.Node
	byID   map[string]*tree.Node
	states map[string]State

	// lastKnown caches leaf states captured when a branch leaves the mixed
	// state, so cycling back to it restores the earlier sub-selection.
	lastKnown map[string]bool

	recomputes int
}

// New creates a controller with nothing selected.
func New(forest []*tree.Node) *Controller {
	c := &Controller{
		forest:    forest,
		nodes:     tree.Index(forest),
		byID:      make(map[string]*tree.Node),
		states:    make(map[string]State),
		lastKnown: make(map[string]bool),
	}
	for number, n := range c.nodes {
		c.states[number] = False
		if !n.Placeholder && n.Clause.ID != "" {
			c.byID[n.Clause.ID] = n
		}
	}
	return c
}

// Forest returns the tree the controller operates on.
func (c *Controller) Forest() []*tree.Node { return c.forest }

// Node resolves an id to its tree node.
func (c *Controller) Node(id string) (*tree.Node, bool) {
	if n, ok := c.nodes[id]; ok {
		return n, true
	}
	if n, ok := c.byID[id]; ok {
		return n, true
	}
	n, ok := c.nodes[clause.Normalize(id)]
	return n, ok
}

// State returns the checked state of a node. Unknown ids report False.
func (c *Controller) State(id string) State {
	n, ok := c.Node(id)
	if !ok {
		return False
	}
	return c.states[n.Number]
}

// States returns a copy of every node's state keyed by number.
func (c *Controller) States() map[string]State {
	out := make(map[string]State, len(c.states))
	for k, v := range c.states {
		out[k] = v
	}
	return out
}

// ToggleLeaf flips a single leaf. Branches, informative leaves and unknown ids
// are left untouched. It reports whether anything changed.
func (c *Controller) ToggleLeaf(id string) bool {
	n, ok := c.Node(id)
	if !ok || !n.IsLeaf() || n.Informative() {
		return false
	}
	next := c.states[n.Number] != True
	c.states[n.Number] = FromBool(next)
	c.lastKnown[n.Number] = next
	c.recomputeAncestors(n)
	return true
}

// SetBranch sets every leaf under the node to value, then recomputes the node
// and its ancestors. Informative leaves end up mirroring their parent.
func (c *Controller) SetBranch(id string, value bool) bool {
	n, ok := c.Node(id)
	if !ok || n.Informative() {
		return false
	}
	c.cascade(n, value)
	if n.IsLeaf() {
		c.lastKnown[n.Number] = value
	}
	c.recomputeSubtree(n)
	c.recomputeAncestors(n)
	return true
}

// SelectAll selects every leaf.
func (c *Controller) SelectAll() {
	for _, n := range c.forest {
		c.cascade(n, true)
	}
	c.recomputeAll()
}

// SelectNone clears every leaf.
func (c *Controller) SelectNone() {
	for _, n := range c.forest {
		c.cascade(n, false)
	}
	c.recomputeAll()
}

// ApplyPreset selects exactly the leaves named in ids.
func (c *Controller) ApplyPreset(ids []string) {
	for _, n := range c.forest {
		c.cascade(n, false)
	}
	for _, id := range ids {
		n, ok := c.Node(id)
		if !ok || !n.IsLeaf() {
			continue
		}
		c.states[n.Number] = True
	}
	c.recomputeAll()
}

// CarryOver copies the selection of prev onto c after the catalogue was
// reloaded. Selected numbers that became branches select their whole subtree,
// numbers that no longer exist are dropped and cached leaf states for leaves
// still present are kept for Restore.
func (c *Controller) CarryOver(prev *Controller) {
	for _, n := range c.forest {
		c.assign(n, false)
	}
	for _, number := range prev.SelectedLeafIDs() {
		n, ok := c.nodes[number]
		if !ok || (n.IsLeaf() && n.Informative()) {
			continue
		}
		c.assign(n, true)
	}
	for number, v := range prev.lastKnown {
		if n, ok := c.nodes[number]; ok && n.IsLeaf() {
			c.lastKnown[number] = v
		}
	}
	c.recomputeAll()
}

// ApplyWizardRules selects clauses from wizard answers. All positive rules
// whose questions were all answered are applied first; then every positive
// rule whose questions were none answered retracts its clauses, except clause
// numbers a satisfied rule named. Negative rules are accepted for
// compatibility with existing rule tables and are not consulted.
func (c *Controller) ApplyWizardRules(answered []string, positive, _ []Rule) {
	given := make(map[string]bool, len(answered))
	for _, q := range answered {
		given[q] = true
	}
	for _, n := range c.forest {
		c.cascade(n, false)
	}

	claimed := make(map[string]bool)
	for _, rule := range positive {
		if !allAnswered(rule, given) {
			continue
		}
		for _, id := range rule.Clauses {
			n, ok := c.Node(id)
			if !ok {
				continue
			}
			claimed[n.Number] = true
			c.assign(n, true)
		}
	}
	for _, rule := range positive {
		if !noneAnswered(rule, given) {
			continue
		}
		for _, id := range rule.Clauses {
			n, ok := c.Node(id)
			if !ok || claimed[n.Number] {
				continue
			}
			c.assign(n, false)
		}
	}
	c.recomputeAll()
}

func allAnswered(rule Rule, given map[string]bool) bool {
	for _, q := range rule.Questions {
		if !given[q] {
			return false
		}
	}
	return true
}

func noneAnswered(rule Rule, given map[string]bool) bool {
	for _, q := range rule.Questions {
		if given[q] {
			return false
		}
	}
	return true
}

// Cycle advances a node through the tree widget's checkbox cycle. A mixed
// branch becomes fully selected (caching its leaves), a selected branch is
// cleared and a cleared branch restores the cached sub-selection. Leaves
// toggle.
func (c *Controller) Cycle(id string) bool {
	n, ok := c.Node(id)
	if !ok || n.Informative() {
		return false
	}
	if n.IsLeaf() {
		return c.ToggleLeaf(n.Number)
	}
	switch c.states[n.Number] {
	case Mixed:
		return c.SetBranch(n.Number, true)
	case True:
		return c.SetBranch(n.Number, false)
	default:
		return c.Restore(n.Number)
	}
}

// Restore sets the leaves under a node back to their cached states. Leaves
// without a cached state are selected; when every cached state is cleared
// the whole branch is selected instead.
func (c *Controller) Restore(id string) bool {
	n, ok := c.Node(id)
	if !ok || n.Informative() {
		return false
	}
	leaves := tree.Leaves([]*tree.Node{n})
	restored := make(map[string]bool, len(leaves))
	anySelected := false
	for _, leaf := range leaves {
		if leaf.Informative() {
			continue
		}
		v, cached := c.lastKnown[leaf.Number]
		if !cached {
			v = true
		}
		restored[leaf.Number] = v
		anySelected = anySelected || v
	}
	for number, v := range restored {
		c.states[number] = FromBool(v || !anySelected)
	}
	if len(restored) == 0 {
		c.assign(n, true)
	}
	c.recomputeSubtree(n)
	c.recomputeAncestors(n)
	return true
}

// SelectedLeafIDs returns the numbers of every selected leaf in display order.
// Informative leaves are included only when their mirrored state is true.
func (c *Controller) SelectedLeafIDs() []string {
	var out []string
	for _, leaf := range tree.Leaves(c.forest) {
		if c.states[leaf.Number] == True {
			out = append(out, leaf.Number)
		}
	}
	return out
}

// Selected returns the records of the selected leaves in display order.
func (c *Controller) Selected() []clause.Record {
	var out []clause.Record
	for _, number := range c.SelectedLeafIDs() {
		n := c.nodes[number]
		if n.Placeholder {
			continue
		}
		out = append(out, n.Clause)
	}
	return out
}

// cascade sets every leaf under n to value, caching leaf states first when n
// is leaving a mixed state.
func (c *Controller) cascade(n *tree.Node, value bool) {
	if c.states[n.Number] == Mixed {
		for _, leaf := range tree.Leaves([]*tree.Node{n}) {
			if leaf.Informative() {
				continue
			}
			c.lastKnown[leaf.Number] = c.states[leaf.Number] == True
		}
	}
	c.assign(n, value)
}

// assign sets every leaf under n to value without touching aggregates.
func (c *Controller) assign(n *tree.Node, value bool) {
	if n.IsLeaf() {
		c.states[n.Number] = FromBool(value)
		return
	}
	for _, child := range n.Children {
		c.assign(child, value)
	}
}

func (c *Controller) recomputeAll() {
	c.recomputes++
	for _, n := range c.forest {
		c.recomputeSubtree(n)
	}
}

// recomputeSubtree derives aggregates for every branch under and including n,
// innermost first.
func (c *Controller) recomputeSubtree(n *tree.Node) {
	if n.IsLeaf() {
		return
	}
	for _, child := range n.Children {
		c.recomputeSubtree(child)
	}
	c.recompute(n)
}

// recomputeAncestors derives aggregates for every strict ancestor of n,
// innermost first.
func (c *Controller) recomputeAncestors(n *tree.Node) {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		c.recompute(cur)
	}
}

// recompute derives a branch state from its non-informative children and
// forces informative leaf children to mirror it. A branch with only
// informative children keeps the aggregate of their cascaded values.
func (c *Controller) recompute(n *tree.Node) {
	var qualifying, informative []State
	for _, child := range n.Children {
		if child.Informative() {
			informative = append(informative, c.states[child.Number])
			continue
		}
		qualifying = append(qualifying, c.states[child.Number])
	}
	state := Derive(qualifying...)
	if len(qualifying) == 0 {
		state = Derive(informative...)
	}
	c.states[n.Number] = state
	for _, child := range n.Children {
		if child.Informative() {
			c.states[child.Number] = state
		}
	}
}
