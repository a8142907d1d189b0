// Package selector launches the interactive terminal clause picker.
package selector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/runner/generate"
	"tableflip.dev/a11yreq/pkg/tui/selector"
	"tableflip.dev/a11yreq/pkg/tui/theme"
)

// ErrNotTerminal is returned when stdout is not an interactive terminal.
var ErrNotTerminal = errors.New("select needs an interactive terminal; use generate with --preset, --answers or --select instead")

// Select runs the picker and, when the user finishes with g, renders the
// chosen clauses through Generate.
type Select struct {
	Service  *app.Service
	Request  app.SelectionRequest
	Lang     clause.Lang
	Generate *generate.Generate
	Out      io.Writer

	// run replaces the Bubble Tea program in tests.
	run func(tea.Model) (tea.Model, error)
}

// Do runs the picker.
func (s *Select) Do(ctx context.Context) error {
	log := logging.FromContext(ctx)
	out := s.Out
	if out == nil {
		out = color.Output
	}
	var th *theme.Theme
	run := s.run
	if run == nil {
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return ErrNotTerminal
		}
		detected := theme.Detect()
		th = &detected
		run = func(m tea.Model) (tea.Model, error) {
			return tea.NewProgram(m, tea.WithAltScreen()).Run()
		}
	}

	events, err := s.Service.Watch(ctx)
	if err != nil {
		log.Warn("not watching the catalogue", zap.Error(err))
		events = nil
	}

	final, err := run(selector.New(ctx, s.Service, selector.Options{
		Lang:    s.Lang,
		Request: s.Request,
		Events:  events,
		Theme:   th,
	}))
	if err != nil {
		return err
	}
	m, ok := final.(selector.Model)
	if !ok {
		return fmt.Errorf("unexpected model %T", final)
	}
	if !m.Generate() {
		_, _ = color.New(color.Faint).Fprintln(out, "nothing generated")
		return nil
	}

	selected := m.SelectedLeafIDs()
	log.Debug("selection finished", zap.Strings("clauses", selected))
	g := generate.Generate{Out: out}
	if s.Generate != nil {
		g = *s.Generate
	}
	g.Service = s.Service
	g.Request = app.SelectionRequest{Select: selected}
	g.Lang = s.Lang
	return g.Do(ctx)
}
