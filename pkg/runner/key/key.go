// Package key prints the legend for the symbols used in clause trees.
package key

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/a11yreq/pkg/glyph"
)

// Key prints the checkbox states and the node markers.
type Key struct {
	Out io.Writer
}

// Do renders the state and marker keys.
func (k *Key) Do(ctx context.Context) error {
	out := k.Out
	if out == nil {
		out = color.Output
	}
	var states, markers []glyph.Glyph
	for _, g := range glyph.DefaultGlyphs() {
		if g.Marker {
			markers = append(markers, g)
		} else {
			states = append(states, g)
		}
	}

	_, _ = fmt.Fprintln(out, "")
	k.Key(out, "States", states)
	_, _ = fmt.Fprintln(out, "")
	k.Key(out, "Markers", markers)
	_, _ = fmt.Fprintln(out, "")
	return nil
}

// Key renders one glyph table under heading.
func (k *Key) Key(out io.Writer, heading string, glyfs []glyph.Glyph) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(heading), bold.Sprint("Meaning"), bold.Sprint("aria"))
	for _, v := range glyfs {
		aria := ""
		if !v.Marker {
			aria = v.Key
		}
		tbl.AddRow(v.Symbol, v.Meaning, aria)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(out, tbl)
}
