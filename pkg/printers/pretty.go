package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/glyph"
	"tableflip.dev/a11yreq/pkg/selection"
)

type PrettyPrint struct {
	ShowID bool
	Lang   clause.Lang
	// Width wraps descriptions; zero means 80 columns.
	Width int
	// Out defaults to color.Output.
	Out io.Writer
}

const idWidth = len("00000000-0000-0000-0000-000000000000  ")

var (
	spacing = strings.Repeat(" ", idWidth)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return 80
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = f.Fprint(pp.out(), " none\n\n")
}

func (pp *PrettyPrint) id(id string) {
	if !pp.ShowID {
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	_, _ = y.Fprint(pp.out(), id)
	if pad := idWidth - len(id); pad > 0 {
		_, _ = fmt.Fprint(pp.out(), strings.Repeat(" ", pad))
	}
}

// Clauses prints clause numbers and names in a table.
func (pp *PrettyPrint) Clauses(records ...clause.Record) {
	if len(records) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range records {
		number := r.Number
		if pp.ShowID {
			number = faint.Sprint(r.ID) + "  " + number
		}
		name := r.LocalName(pp.Lang)
		if r.Informative {
			name += " " + faint.Sprint(glyph.Informative)
		}
		tbl.AddRow(number, name)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Clause prints one clause in full with its description and compliance text
// stripped of markup.
func (pp *PrettyPrint) Clause(r clause.Record) {
	pp.id(r.ID)
	pp.Title(fmt.Sprintf("%s %s", r.Number, r.LocalName(pp.Lang)))
	if r.Informative {
		_, _ = color.New(color.Italic).Fprintln(pp.out(), "informative")
	}
	if d := clause.PlainText(r.LocalDescription(pp.Lang)); d != "" {
		_, _ = fmt.Fprintln(pp.out(), wordwrap.String(d, pp.width()))
	}
	if c := clause.PlainText(r.LocalCompliance(pp.Lang)); c != "" {
		pp.NewLine()
		_, _ = color.New(color.Bold).Fprintln(pp.out(), "Compliance")
		_, _ = fmt.Fprintln(pp.out(), wordwrap.String(c, pp.width()))
	}
	pp.NewLine()
}

// Infos prints info sections with their order and annex classification.
func (pp *PrettyPrint) Infos(sections ...clause.InfoSection) {
	if len(sections) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range sections {
		where := "intro"
		if clause.IsAnnex(s.Name) {
			where = "annex"
		}
		name := s.Name
		if pp.ShowID {
			name = faint.Sprint(s.ID) + "  " + name
		}
		tbl.AddRow(fmt.Sprintf("%d", s.Order), name, faint.Sprint(where))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Info prints one section with its body stripped of markup.
func (pp *PrettyPrint) Info(s clause.InfoSection) {
	pp.id(s.ID)
	pp.Title(s.Name)
	if body := clause.PlainText(s.BodyHTML); body != "" {
		_, _ = fmt.Fprintln(pp.out(), wordwrap.String(body, pp.width()))
	}
	pp.NewLine()
}

// Presets prints presets with the number of clauses each holds.
func (pp *PrettyPrint) Presets(presets ...clause.Preset) {
	if len(presets) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, p := range presets {
		name := p.LocalName(pp.Lang)
		if pp.ShowID {
			name = faint.Sprint(p.ID) + "  " + name
		}
		tbl.AddRow(name, faint.Sprintf("%d clauses", len(p.Clauses)))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Tree prints the clause forest indented by depth. When states is non-nil
// each node is prefixed with its checkbox.
func (pp *PrettyPrint) Tree(forest []*tree.Node, states map[string]selection.State) {
	if len(forest) == 0 {
		pp.none()
		return
	}
	faint := color.New(color.Faint)
	check := map[selection.State]*color.Color{
		selection.True:  color.New(color.FgGreen),
		selection.Mixed: color.New(color.FgYellow),
		selection.False: color.New(color.Faint),
	}
	tree.Walk(forest, func(n *tree.Node) bool {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", n.Depth()-1))
		if states != nil {
			s := states[n.Number]
			b.WriteString(check[s].Sprint(glyph.ForState(s)))
			b.WriteString(" ")
		}
		if n.Placeholder {
			b.WriteString(faint.Sprintf("%s %s", n.Number, glyph.Placeholder))
		} else {
			b.WriteString(n.Number)
			b.WriteString(" ")
			b.WriteString(n.Clause.LocalName(pp.Lang))
		}
		if n.Informative() {
			b.WriteString(" ")
			b.WriteString(faint.Sprint(glyph.Informative))
		}
		_, _ = fmt.Fprintln(pp.out(), b.String())
		return true
	})
	pp.NewLine()
}
