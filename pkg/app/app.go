// Package app holds the operations shared by the CLI, terminal selector, web
// server and MCP server.
package app

import (
	"context"
	"strings"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/selection"
	"tableflip.dev/a11yreq/pkg/store"
	"tableflip.dev/a11yreq/pkg/wizard"
)

// Service provides high-level operations over the requirements catalogue.
// It wraps persistence and the selection model so UIs and CLIs can share
// logic.
type Service struct {
	Persistence store.Persistence
	// Rules drives wizard answers. Nil means the built in table.
	Rules *wizard.Rules
}

// Catalogue is a consistent read of the whole store.
type Catalogue struct {
	Clauses []clause.Record
	Infos   []clause.InfoSection
	Presets []clause.Preset
}

// WizardRules returns the configured rule table.
func (s *Service) WizardRules() *wizard.Rules {
	if s.Rules == nil {
		s.Rules = wizard.Default()
	}
	return s.Rules
}

// Catalogue loads clauses, info sections and presets.
func (s *Service) Catalogue(ctx context.Context) (*Catalogue, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	b, err := store.Export(ctx, s.Persistence)
	if err != nil {
		return nil, err
	}
	return &Catalogue{Clauses: b.Clauses, Infos: b.Infos, Presets: b.Presets}, nil
}

// Tree builds the clause forest from the stored clauses.
func (s *Service) Tree(ctx context.Context) ([]*tree.Node, error) {
	records, err := s.Clauses(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Build(records), nil
}

// NewSelection returns a controller over the current catalogue with nothing
// selected.
func (s *Service) NewSelection(ctx context.Context) (*selection.Controller, error) {
	forest, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return selection.New(forest), nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// Clauses lists clauses in natural number order.
func (s *Service) Clauses(ctx context.Context) ([]clause.Record, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Clauses(ctx)
}

// Clause returns a clause by record id or number.
func (s *Service) Clause(ctx context.Context, ref string) (clause.Record, error) {
	if s.Persistence == nil {
		return clause.Record{}, ErrNoPersistence
	}
	r, err := s.Persistence.Clause(ctx, ref)
	if err == nil {
		return r, nil
	}
	all, lerr := s.Persistence.Clauses(ctx)
	if lerr != nil {
		return clause.Record{}, lerr
	}
	number := clause.Normalize(ref)
	for _, r := range all {
		if r.Number == number {
			return r, nil
		}
	}
	return clause.Record{}, err
}

// CreateClause stores a new clause. A clause with the same number is
// reported as an ExistsError carrying the existing id.
func (s *Service) CreateClause(ctx context.Context, r clause.Record) (clause.Record, error) {
	if s.Persistence == nil {
		return clause.Record{}, ErrNoPersistence
	}
	r.ID = ""
	r.Number = clause.Normalize(r.Number)
	if err := r.Validate(); err != nil {
		return clause.Record{}, err
	}
	if existing, ok, err := s.clauseByNumber(ctx, r.Number); err != nil {
		return clause.Record{}, err
	} else if ok {
		return clause.Record{}, &ExistsError{Kind: store.KindClause, Key: r.Number, ID: existing.ID}
	}
	if err := s.Persistence.StoreClause(&r); err != nil {
		return clause.Record{}, err
	}
	return r, nil
}

// UpdateClause replaces the clause with the given id. Moving it onto a number
// another clause holds is an ExistsError.
func (s *Service) UpdateClause(ctx context.Context, id string, r clause.Record) (clause.Record, error) {
	if s.Persistence == nil {
		return clause.Record{}, ErrNoPersistence
	}
	if _, err := s.Persistence.Clause(ctx, id); err != nil {
		return clause.Record{}, err
	}
	r.ID = id
	r.Number = clause.Normalize(r.Number)
	if err := r.Validate(); err != nil {
		return clause.Record{}, err
	}
	if existing, ok, err := s.clauseByNumber(ctx, r.Number); err != nil {
		return clause.Record{}, err
	} else if ok && existing.ID != id {
		return clause.Record{}, &ExistsError{Kind: store.KindClause, Key: r.Number, ID: existing.ID}
	}
	if err := s.Persistence.StoreClause(&r); err != nil {
		return clause.Record{}, err
	}
	return r, nil
}

// DeleteClause removes a clause unless a preset still references it.
func (s *Service) DeleteClause(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	refs, err := s.Persistence.PresetsReferencing(ctx, id)
	if err != nil {
		return err
	}
	if len(refs) > 0 {
		return &ReferencedError{ClauseID: id, Presets: refs}
	}
	return s.Persistence.DeleteClause(id)
}

func (s *Service) clauseByNumber(ctx context.Context, number string) (clause.Record, bool, error) {
	all, err := s.Persistence.Clauses(ctx)
	if err != nil {
		return clause.Record{}, false, err
	}
	for _, r := range all {
		if r.Number == number {
			return r, true, nil
		}
	}
	return clause.Record{}, false, nil
}

// Infos lists info sections by order.
func (s *Service) Infos(ctx context.Context) ([]clause.InfoSection, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Infos(ctx)
}

// Info returns a section by id, then by name ignoring case.
func (s *Service) Info(ctx context.Context, ref string) (clause.InfoSection, error) {
	if s.Persistence == nil {
		return clause.InfoSection{}, ErrNoPersistence
	}
	sec, err := s.Persistence.Info(ctx, ref)
	if err == nil {
		return sec, nil
	}
	all, lerr := s.Persistence.Infos(ctx)
	if lerr != nil {
		return clause.InfoSection{}, lerr
	}
	for _, sec := range all {
		if strings.EqualFold(sec.Name, strings.TrimSpace(ref)) {
			return sec, nil
		}
	}
	return clause.InfoSection{}, err
}

// CreateInfo stores a new section. Names are unique.
func (s *Service) CreateInfo(ctx context.Context, sec clause.InfoSection) (clause.InfoSection, error) {
	if s.Persistence == nil {
		return clause.InfoSection{}, ErrNoPersistence
	}
	sec.ID = ""
	if err := sec.Validate(); err != nil {
		return clause.InfoSection{}, err
	}
	all, err := s.Persistence.Infos(ctx)
	if err != nil {
		return clause.InfoSection{}, err
	}
	for _, existing := range all {
		if existing.Name == sec.Name {
			return clause.InfoSection{}, &ExistsError{Kind: store.KindInfo, Key: sec.Name, ID: existing.ID}
		}
	}
	if err := s.Persistence.StoreInfo(&sec); err != nil {
		return clause.InfoSection{}, err
	}
	return sec, nil
}

// UpdateInfo replaces the section with the given id.
func (s *Service) UpdateInfo(ctx context.Context, id string, sec clause.InfoSection) (clause.InfoSection, error) {
	if s.Persistence == nil {
		return clause.InfoSection{}, ErrNoPersistence
	}
	if _, err := s.Persistence.Info(ctx, id); err != nil {
		return clause.InfoSection{}, err
	}
	sec.ID = id
	if err := s.Persistence.StoreInfo(&sec); err != nil {
		return clause.InfoSection{}, err
	}
	return sec, nil
}

// DeleteInfo removes a section.
func (s *Service) DeleteInfo(_ context.Context, id string) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return s.Persistence.DeleteInfo(id)
}

// Presets lists presets by order.
func (s *Service) Presets(ctx context.Context) ([]clause.Preset, error) {
	if s.Persistence == nil {
		return nil, ErrNoPersistence
	}
	return s.Persistence.Presets(ctx)
}

// Preset resolves a preset by id, then by English or French name ignoring
// case.
func (s *Service) Preset(ctx context.Context, ref string) (clause.Preset, error) {
	if s.Persistence == nil {
		return clause.Preset{}, ErrNoPersistence
	}
	ref = strings.TrimSpace(ref)
	if p, err := s.Persistence.Preset(ctx, ref); err == nil {
		return p, nil
	}
	all, err := s.Persistence.Presets(ctx)
	if err != nil {
		return clause.Preset{}, err
	}
	for _, p := range all {
		if strings.EqualFold(p.Name, ref) || (p.FrName != "" && strings.EqualFold(p.FrName, ref)) {
			return p, nil
		}
	}
	return clause.Preset{}, &unknownPresetError{ref: ref}
}

type unknownPresetError struct{ ref string }

func (e *unknownPresetError) Error() string        { return "app: unknown preset " + e.ref }
func (e *unknownPresetError) Is(target error) bool { return target == ErrUnknownPreset }

// CreatePreset stores a new preset. Names are unique. Clause references may
// be record ids or numbers and are stored as record ids.
func (s *Service) CreatePreset(ctx context.Context, p clause.Preset) (clause.Preset, error) {
	if s.Persistence == nil {
		return clause.Preset{}, ErrNoPersistence
	}
	p.ID = ""
	if err := p.Validate(); err != nil {
		return clause.Preset{}, err
	}
	all, err := s.Persistence.Presets(ctx)
	if err != nil {
		return clause.Preset{}, err
	}
	for _, existing := range all {
		if existing.Name == p.Name {
			return clause.Preset{}, &ExistsError{Kind: store.KindPreset, Key: p.Name, ID: existing.ID}
		}
	}
	if p.Clauses, err = s.clauseIDs(ctx, p.Clauses); err != nil {
		return clause.Preset{}, err
	}
	if err := s.Persistence.StorePreset(&p); err != nil {
		return clause.Preset{}, err
	}
	return p, nil
}

// UpdatePreset replaces the preset with the given id.
func (s *Service) UpdatePreset(ctx context.Context, id string, p clause.Preset) (clause.Preset, error) {
	if s.Persistence == nil {
		return clause.Preset{}, ErrNoPersistence
	}
	if _, err := s.Persistence.Preset(ctx, id); err != nil {
		return clause.Preset{}, err
	}
	p.ID = id
	var err error
	if p.Clauses, err = s.clauseIDs(ctx, p.Clauses); err != nil {
		return clause.Preset{}, err
	}
	if err := s.Persistence.StorePreset(&p); err != nil {
		return clause.Preset{}, err
	}
	return p, nil
}

// DeletePreset removes a preset.
func (s *Service) DeletePreset(_ context.Context, id string) error {
	if s.Persistence == nil {
		return ErrNoPersistence
	}
	return s.Persistence.DeletePreset(id)
}

// clauseIDs maps clause numbers to record ids, leaving unknown references
// untouched and dropping duplicates.
func (s *Service) clauseIDs(ctx context.Context, refs []string) ([]string, error) {
	if len(refs) == 0 {
		return []string{}, nil
	}
	all, err := s.Persistence.Clauses(ctx)
	if err != nil {
		return nil, err
	}
	byNumber := make(map[string]string, len(all))
	for _, r := range all {
		byNumber[r.Number] = r.ID
	}
	seen := make(map[string]bool, len(refs))
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if id, ok := byNumber[clause.Normalize(ref)]; ok {
			ref = id
		}
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out, nil
}

// Import merges a bundle into the store.
func (s *Service) Import(ctx context.Context, b clause.Bundle) (store.ImportReport, error) {
	if s.Persistence == nil {
		return store.ImportReport{}, ErrNoPersistence
	}
	return s.Persistence.Import(ctx, b)
}

// Export snapshots the store as a bundle.
func (s *Service) Export(ctx context.Context) (clause.Bundle, error) {
	if s.Persistence == nil {
		return clause.Bundle{}, ErrNoPersistence
	}
	return store.Export(ctx, s.Persistence)
}
