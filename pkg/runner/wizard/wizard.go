// Package wizard runs the yes/no questionnaire and shows or renders the
// resulting selection.
package wizard

import (
	"context"
	"io"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/runner/generate"
	"tableflip.dev/a11yreq/pkg/runner/tree"
	rules "tableflip.dev/a11yreq/pkg/wizard"
)

// Wizard asks every question then applies the answers on top of Preset.
type Wizard struct {
	Service *app.Service
	Asker   rules.Asker
	Preset  string
	Lang    clause.Lang
	// Generate renders a document from the answers. Nil prints the tree.
	Generate *generate.Generate
	Out      io.Writer
}

// Do runs the wizard.
func (w *Wizard) Do(ctx context.Context) error {
	out := w.Out
	if out == nil {
		out = color.Output
	}

	answered, err := w.Service.WizardRules().Ask(w.Asker)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug("wizard answered", zap.Strings("answers", answered))

	req := app.SelectionRequest{Preset: w.Preset, Answers: answered}
	if w.Generate != nil {
		g := *w.Generate
		g.Service = w.Service
		g.Request = req
		g.Lang = w.Lang
		return g.Do(ctx)
	}

	t := &tree.Tree{Service: w.Service, Request: req, States: true, Lang: w.Lang, Out: out}
	if err := t.Do(ctx); err != nil {
		return err
	}
	faint := color.New(color.Faint)
	if len(answered) == 0 {
		_, _ = faint.Fprintln(out, "no questions answered yes")
		return nil
	}
	_, _ = faint.Fprintf(out, "a11yreq generate --answers %s\n", strings.Join(answered, ","))
	return nil
}
