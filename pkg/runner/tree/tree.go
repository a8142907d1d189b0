// Package tree prints the clause hierarchy with selection states.
package tree

import (
	"context"
	"io"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/printers"
	"tableflip.dev/a11yreq/pkg/selection"
)

// Tree prints the clause forest. When a selection is requested each node
// shows its checkbox.
type Tree struct {
	Service *app.Service
	Request app.SelectionRequest
	// States forces checkboxes even for an empty request.
	States bool
	ShowID bool
	Lang   clause.Lang
	Out    io.Writer
}

// Do runs the print.
func (t *Tree) Do(ctx context.Context) error {
	c, err := t.Service.Select(ctx, t.Request)
	if err != nil {
		return err
	}
	var states map[string]selection.State
	if t.States || !empty(t.Request) {
		states = c.States()
	}
	pp := &printers.PrettyPrint{ShowID: t.ShowID, Lang: t.Lang, Out: t.Out}
	if states != nil {
		pp.TitleWithCount("Selected", len(c.Selected()))
	}
	pp.Tree(c.Forest(), states)
	return nil
}

func empty(req app.SelectionRequest) bool {
	return !req.All && req.Preset == "" && len(req.Answers) == 0 && len(req.Select) == 0
}
