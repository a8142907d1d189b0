package catalog

import (
	"context"
	"fmt"
	"io"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
)

// SaveClause creates a clause, or updates the one named by Ref.
type SaveClause struct {
	Service *app.Service
	Ref     string
	Edit    func(r *clause.Record)
	JSON    bool
	Out     io.Writer
}

// Do runs the save.
func (s *SaveClause) Do(ctx context.Context) error {
	var (
		r   clause.Record
		err error
	)
	if s.Ref != "" {
		if r, err = s.Service.Clause(ctx, s.Ref); err != nil {
			return err
		}
	}
	if s.Edit != nil {
		s.Edit(&r)
	}
	if s.Ref == "" {
		r, err = s.Service.CreateClause(ctx, r)
	} else {
		r, err = s.Service.UpdateClause(ctx, r.ID, r)
	}
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(out(s.Out), r)
	}
	_, _ = fmt.Fprintf(out(s.Out), "saved clause %s %s (%s)\n", r.Number, r.Name, r.ID)
	return nil
}

// SaveInfo creates an info section, or updates the one named by Ref.
type SaveInfo struct {
	Service *app.Service
	Ref     string
	Edit    func(s *clause.InfoSection)
	JSON    bool
	Out     io.Writer
}

// Do runs the save.
func (s *SaveInfo) Do(ctx context.Context) error {
	var (
		sec clause.InfoSection
		err error
	)
	if s.Ref != "" {
		if sec, err = s.Service.Info(ctx, s.Ref); err != nil {
			return err
		}
	}
	if s.Edit != nil {
		s.Edit(&sec)
	}
	if s.Ref == "" {
		sec, err = s.Service.CreateInfo(ctx, sec)
	} else {
		sec, err = s.Service.UpdateInfo(ctx, sec.ID, sec)
	}
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(out(s.Out), sec)
	}
	_, _ = fmt.Fprintf(out(s.Out), "saved info %s (%s)\n", sec.Name, sec.ID)
	return nil
}

// SavePreset creates a preset, or updates the one named by Ref. Clause
// references may be numbers; they are stored as ids.
type SavePreset struct {
	Service *app.Service
	Ref     string
	Edit    func(p *clause.Preset)
	JSON    bool
	Out     io.Writer
}

// Do runs the save.
func (s *SavePreset) Do(ctx context.Context) error {
	var (
		p   clause.Preset
		err error
	)
	if s.Ref != "" {
		if p, err = s.Service.Preset(ctx, s.Ref); err != nil {
			return err
		}
	}
	if s.Edit != nil {
		s.Edit(&p)
	}
	if s.Ref == "" {
		p, err = s.Service.CreatePreset(ctx, p)
	} else {
		p, err = s.Service.UpdatePreset(ctx, p.ID, p)
	}
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(out(s.Out), p)
	}
	_, _ = fmt.Fprintf(out(s.Out), "saved preset %s with %d clauses (%s)\n", p.Name, len(p.Clauses), p.ID)
	return nil
}
