package store

import (
	"context"
	"fmt"

	"tableflip.dev/a11yreq/pkg/clause"
)

// ImportReport counts what an import created and replaced.
type ImportReport struct {
	Created  int `json:"created"`
	Replaced int `json:"replaced"`
}

// Import merges a bundle into the store. Clauses are matched on number, info
// sections and presets on name; matches keep their stored id. Preset clause
// references may name bundle ids or clause numbers and are rewritten to the
// stored ids.
func (p *persistence) Import(ctx context.Context, b clause.Bundle) (ImportReport, error) {
	var report ImportReport

	existing, err := p.Clauses(ctx)
	if err != nil {
		return report, err
	}
	byNumber := make(map[string]string, len(existing))
	for _, r := range existing {
		byNumber[r.Number] = r.ID
	}

	ids := make(map[string]string, len(b.Clauses))
	for _, r := range b.Clauses {
		r.Number = clause.Normalize(r.Number)
		original := r.ID
		if id, ok := byNumber[r.Number]; ok {
			r.ID = id
			report.Replaced++
		} else {
			r.ID = ""
			report.Created++
		}
		if err := p.StoreClause(&r); err != nil {
			return report, fmt.Errorf("store: import clause %s: %w", r.Number, err)
		}
		byNumber[r.Number] = r.ID
		if original != "" {
			ids[original] = r.ID
		}
	}

	infos, err := p.Infos(ctx)
	if err != nil {
		return report, err
	}
	infoByName := make(map[string]string, len(infos))
	for _, s := range infos {
		infoByName[s.Name] = s.ID
	}
	for _, s := range b.Infos {
		s.ID = infoByName[s.Name]
		if s.ID != "" {
			report.Replaced++
		} else {
			report.Created++
		}
		if err := p.StoreInfo(&s); err != nil {
			return report, fmt.Errorf("store: import info %q: %w", s.Name, err)
		}
	}

	presets, err := p.Presets(ctx)
	if err != nil {
		return report, err
	}
	presetByName := make(map[string]string, len(presets))
	for _, pr := range presets {
		presetByName[pr.Name] = pr.ID
	}
	for _, pr := range b.Presets {
		pr.ID = presetByName[pr.Name]
		if pr.ID != "" {
			report.Replaced++
		} else {
			report.Created++
		}
		refs := make([]string, 0, len(pr.Clauses))
		for _, ref := range pr.Clauses {
			switch {
			case ids[ref] != "":
				refs = append(refs, ids[ref])
			case byNumber[clause.Normalize(ref)] != "":
				refs = append(refs, byNumber[clause.Normalize(ref)])
			default:
				refs = append(refs, ref)
			}
		}
		pr.Clauses = refs
		if err := p.StorePreset(&pr); err != nil {
			return report, fmt.Errorf("store: import preset %q: %w", pr.Name, err)
		}
	}
	return report, nil
}

// Export snapshots the whole store as a bundle.
func Export(ctx context.Context, p Persistence) (clause.Bundle, error) {
	var (
		b   clause.Bundle
		err error
	)
	if b.Clauses, err = p.Clauses(ctx); err != nil {
		return b, err
	}
	if b.Infos, err = p.Infos(ctx); err != nil {
		return b, err
	}
	if b.Presets, err = p.Presets(ctx); err != nil {
		return b, err
	}
	return b, nil
}
