package selector

import (
	"fmt"
	"strings"

	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/glyph"
	"tableflip.dev/a11yreq/pkg/selection"
	"tableflip.dev/a11yreq/pkg/tui/overlay"
)

// View renders the title, the visible slice of the tree and the status line.
// Help is drawn over the dimmed tree.
func (m Model) View() string {
	if m.showHelp && m.help != nil {
		return overlay.Center(m.treeView(), m.help.View(), m.width, m.height, m.theme.Modal.Backdrop)
	}
	return m.treeView()
}

func (m Model) treeView() string {
	th := m.theme
	var b strings.Builder
	title := "Accessibility requirements"
	if m.c == nil {
		b.WriteString(th.Panel.Title.Render(title) + "\n\nLoading…\n")
		return b.String()
	}
	count := th.Footer.Count.Render(fmt.Sprintf("%d selected", len(m.c.Selected())))
	b.WriteString(th.Panel.Title.Render(title) + "  " + count + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString("The catalogue has no clauses.\n")
	}
	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = th.Tree.Cursor.Render(line)
		}
		b.WriteString(line + "\n")
	}

	status := th.Footer.Status.Render(m.status)
	hint := th.Footer.Help.Render("? help · g generate · q quit")
	b.WriteString(status + "  " + hint)
	return b.String()
}

func (m Model) renderRow(n *tree.Node) string {
	th := m.theme.Tree
	indent := strings.Repeat("  ", n.Depth()-1)

	expander := " "
	if !n.IsLeaf() {
		expander = glyph.Collapsed
		if m.expanded[n.Number] {
			expander = glyph.Expanded
		}
	}

	state := m.c.State(n.Number)
	box := glyph.ForState(state)
	switch state {
	case selection.True:
		box = th.Checked.Render(box)
	case selection.Mixed:
		box = th.Mixed.Render(box)
	default:
		box = th.Unchecked.Render(box)
	}

	number := th.Number.Render(n.Number)
	switch {
	case n.Placeholder:
		return fmt.Sprintf("%s%s %s %s %s", indent, expander, box, number, th.Placeholder.Render(glyph.Placeholder))
	case n.Informative():
		name := th.Informative.Render(glyph.Informative + " " + n.Clause.LocalName(m.lang))
		return fmt.Sprintf("%s%s %s %s %s", indent, expander, box, number, name)
	default:
		return fmt.Sprintf("%s%s %s %s %s", indent, expander, box, number, th.Name.Render(n.Clause.LocalName(m.lang)))
	}
}
