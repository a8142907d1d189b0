// Package catalog lists, shows and edits clauses, info sections and presets
// from the command line.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/printers"
	"tableflip.dev/a11yreq/pkg/store"
)

// List prints every item of one kind.
type List struct {
	Service *app.Service
	Kind    store.Kind
	// Query narrows clauses to a branch number or a name substring.
	Query  string
	ShowID bool
	JSON   bool
	Lang   clause.Lang
	Out    io.Writer
}

// Do runs the listing.
func (l *List) Do(ctx context.Context) error {
	pp := &printers.PrettyPrint{ShowID: l.ShowID, Lang: l.Lang, Out: l.Out}
	switch l.Kind {
	case store.KindClause:
		all, err := l.Service.Clauses(ctx)
		if err != nil {
			return err
		}
		all = filterClauses(all, l.Lang, l.Query)
		if l.JSON {
			return writeJSON(out(l.Out), all)
		}
		pp.TitleWithCount("Clauses", len(all))
		pp.Clauses(all...)
	case store.KindInfo:
		all, err := l.Service.Infos(ctx)
		if err != nil {
			return err
		}
		if l.JSON {
			return writeJSON(out(l.Out), all)
		}
		pp.TitleWithCount("Info sections", len(all))
		pp.Infos(all...)
	case store.KindPreset:
		all, err := l.Service.Presets(ctx)
		if err != nil {
			return err
		}
		if l.JSON {
			return writeJSON(out(l.Out), all)
		}
		pp.TitleWithCount("Presets", len(all))
		pp.Presets(all...)
	default:
		return fmt.Errorf("unknown kind %q", l.Kind)
	}
	return nil
}

func filterClauses(all []clause.Record, lang clause.Lang, query string) []clause.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all
	}
	number := clause.Normalize(query)
	out := make([]clause.Record, 0, len(all))
	for _, r := range all {
		if r.Number == number || clause.IsDescendant(number, r.Number) ||
			strings.Contains(strings.ToLower(r.LocalName(lang)), query) {
			out = append(out, r)
		}
	}
	return out
}

// Show prints one item in full. Ref is an id, a clause number or a name.
type Show struct {
	Service *app.Service
	Kind    store.Kind
	Ref     string
	ShowID  bool
	JSON    bool
	Lang    clause.Lang
	Out     io.Writer
}

// Do runs the lookup.
func (s *Show) Do(ctx context.Context) error {
	pp := &printers.PrettyPrint{ShowID: s.ShowID, Lang: s.Lang, Out: s.Out}
	switch s.Kind {
	case store.KindClause:
		r, err := s.Service.Clause(ctx, s.Ref)
		if err != nil {
			return err
		}
		if s.JSON {
			return writeJSON(out(s.Out), r)
		}
		pp.Clause(r)
	case store.KindInfo:
		sec, err := s.Service.Info(ctx, s.Ref)
		if err != nil {
			return err
		}
		if s.JSON {
			return writeJSON(out(s.Out), sec)
		}
		pp.Info(sec)
	case store.KindPreset:
		p, err := s.Service.Preset(ctx, s.Ref)
		if err != nil {
			return err
		}
		if s.JSON {
			return writeJSON(out(s.Out), p)
		}
		return s.preset(ctx, pp, p)
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
	return nil
}

// preset prints the preset heading followed by the clauses it selects.
func (s *Show) preset(ctx context.Context, pp *printers.PrettyPrint, p clause.Preset) error {
	all, err := s.Service.Clauses(ctx)
	if err != nil {
		return err
	}
	var records []clause.Record
	for _, r := range all {
		if p.References(r.ID) {
			records = append(records, r)
		}
	}
	if pp.ShowID {
		_, _ = color.New(color.Faint).Fprintln(out(s.Out), p.ID)
	}
	pp.TitleWithCount(p.LocalName(s.Lang), len(records))
	if d := p.LocalDescription(s.Lang); d != "" {
		_, _ = fmt.Fprintln(out(s.Out), clause.PlainText(d))
		pp.NewLine()
	}
	pp.Clauses(records...)
	return nil
}

// Delete removes one item. Ref resolves like Show.
type Delete struct {
	Service *app.Service
	Kind    store.Kind
	Ref     string
	Out     io.Writer
}

// Do runs the delete.
func (d *Delete) Do(ctx context.Context) error {
	var (
		id, label string
		err       error
	)
	switch d.Kind {
	case store.KindClause:
		r, lerr := d.Service.Clause(ctx, d.Ref)
		if lerr != nil {
			return lerr
		}
		id, label = r.ID, r.Number
		err = d.Service.DeleteClause(ctx, id)
	case store.KindInfo:
		sec, lerr := d.Service.Info(ctx, d.Ref)
		if lerr != nil {
			return lerr
		}
		id, label = sec.ID, sec.Name
		err = d.Service.DeleteInfo(ctx, id)
	case store.KindPreset:
		p, lerr := d.Service.Preset(ctx, d.Ref)
		if lerr != nil {
			return lerr
		}
		id, label = p.ID, p.Name
		err = d.Service.DeletePreset(ctx, id)
	default:
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(d.Out), "deleted %s %s\n", d.Kind, label)
	return nil
}

func out(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return color.Output
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
