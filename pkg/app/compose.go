package app

import (
	"context"
	"fmt"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/render"
	"tableflip.dev/a11yreq/pkg/selection"
)

// SelectionRequest describes a selection built in one shot. Steps apply in
// field order: All, then Preset, then Answers, then Select marks each named
// clause or branch selected.
type SelectionRequest struct {
	All     bool     `json:"all,omitempty"`
	Preset  string   `json:"preset,omitempty"`
	Answers []string `json:"answers,omitempty"`
	Select  []string `json:"select,omitempty"`
}

// Select builds a controller over the current catalogue and applies req.
func (s *Service) Select(ctx context.Context, req SelectionRequest) (*selection.Controller, error) {
	c, err := s.NewSelection(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(ctx, c, req); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply runs req against an existing controller.
func (s *Service) Apply(ctx context.Context, c *selection.Controller, req SelectionRequest) error {
	if req.All {
		c.SelectAll()
	}
	if req.Preset != "" {
		p, err := s.Preset(ctx, req.Preset)
		if err != nil {
			return err
		}
		c.ApplyPreset(p.Clauses)
	}
	if len(req.Answers) > 0 {
		rules := s.WizardRules()
		answered, err := rules.Answered(req.Answers)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		rules.Apply(c, answered)
	}
	for _, id := range req.Select {
		if _, ok := c.Node(id); !ok {
			return fmt.Errorf("%w: unknown clause %q", ErrInvalidSelection, id)
		}
		c.SetBranch(id, true)
	}
	return nil
}

// Document composes the requirements document for the controller's current
// selection: the selected clauses in natural order, framed by the intro and
// annex info sections.
func (s *Service) Document(ctx context.Context, c *selection.Controller, lang clause.Lang, title string) (render.Document, error) {
	infos, err := s.Infos(ctx)
	if err != nil {
		return render.Document{}, err
	}
	selected := c.Selected()
	clause.SortRecords(selected)
	intro, annex := clause.SplitSections(infos)
	return render.Document{
		Title:   title,
		Lang:    lang,
		Clauses: selected,
		Intro:   intro,
		Annex:   annex,
	}, nil
}

// Compose builds a selection from req and returns its document.
func (s *Service) Compose(ctx context.Context, req SelectionRequest, lang clause.Lang, title string) (render.Document, error) {
	c, err := s.Select(ctx, req)
	if err != nil {
		return render.Document{}, err
	}
	return s.Document(ctx, c, lang, title)
}
