package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	counter int
	clauses map[string]clause.Record
	infos   map[string]clause.InfoSection
	presets map[string]clause.Preset
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{
		clauses: make(map[string]clause.Record),
		infos:   make(map[string]clause.InfoSection),
		presets: make(map[string]clause.Preset),
	}
}

func (m *memoryPersistence) newID() string {
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

func notFound(kind store.Kind, id string) error {
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, kind, id)
}

func (m *memoryPersistence) Clauses(_ context.Context) ([]clause.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]clause.Record, 0, len(m.clauses))
	for _, r := range m.clauses {
		out = append(out, r)
	}
	clause.SortRecords(out)
	return out, nil
}

func (m *memoryPersistence) Clause(_ context.Context, id string) (clause.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.clauses[id]
	if !ok {
		return clause.Record{}, notFound(store.KindClause, id)
	}
	return r, nil
}

func (m *memoryPersistence) StoreClause(r *clause.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = m.newID()
	}
	m.clauses[r.ID] = *r
	return nil
}

func (m *memoryPersistence) DeleteClause(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clauses[id]; !ok {
		return notFound(store.KindClause, id)
	}
	delete(m.clauses, id)
	return nil
}

func (m *memoryPersistence) Infos(_ context.Context) ([]clause.InfoSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]clause.InfoSection, 0, len(m.infos))
	for _, s := range m.infos {
		out = append(out, s)
	}
	clause.SortSections(out)
	return out, nil
}

func (m *memoryPersistence) Info(_ context.Context, id string) (clause.InfoSection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.infos[id]
	if !ok {
		return clause.InfoSection{}, notFound(store.KindInfo, id)
	}
	return s, nil
}

func (m *memoryPersistence) StoreInfo(s *clause.InfoSection) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = m.newID()
	}
	m.infos[s.ID] = *s
	return nil
}

func (m *memoryPersistence) DeleteInfo(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.infos[id]; !ok {
		return notFound(store.KindInfo, id)
	}
	delete(m.infos, id)
	return nil
}

func (m *memoryPersistence) Presets(_ context.Context) ([]clause.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]clause.Preset, 0, len(m.presets))
	for _, p := range m.presets {
		out = append(out, p)
	}
	clause.SortPresets(out)
	return out, nil
}

func (m *memoryPersistence) Preset(_ context.Context, id string) (clause.Preset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.presets[id]
	if !ok {
		return clause.Preset{}, notFound(store.KindPreset, id)
	}
	return p, nil
}

func (m *memoryPersistence) StorePreset(p *clause.Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = m.newID()
	}
	m.presets[p.ID] = *p
	return nil
}

func (m *memoryPersistence) DeletePreset(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.presets[id]; !ok {
		return notFound(store.KindPreset, id)
	}
	delete(m.presets, id)
	return nil
}

func (m *memoryPersistence) PresetsReferencing(ctx context.Context, clauseID string) ([]clause.Preset, error) {
	all, _ := m.Presets(ctx)
	var out []clause.Preset
	for _, p := range all {
		if p.References(clauseID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryPersistence) Import(_ context.Context, b clause.Bundle) (store.ImportReport, error) {
	var report store.ImportReport
	for _, r := range b.Clauses {
		if err := m.StoreClause(&r); err != nil {
			return report, err
		}
		report.Created++
	}
	for _, s := range b.Infos {
		if err := m.StoreInfo(&s); err != nil {
			return report, err
		}
		report.Created++
	}
	for _, p := range b.Presets {
		if err := m.StorePreset(&p); err != nil {
			return report, err
		}
		report.Created++
	}
	return report, nil
}

func (m *memoryPersistence) Watch(_ context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func (m *memoryPersistence) Close() error { return nil }

// seeded returns a service over a small catalogue:
// 5 (5.1, 5.2 informative), 6 (6.1, 6.3), Annex and intro sections and a
// "Web" preset holding 5.1 and 6.3.
func seeded(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	svc := &Service{Persistence: newMemoryPersistence()}
	for _, r := range []clause.Record{
		{Number: "5", Name: "Generic"},
		{Number: "5.1", Name: "Closed functionality"},
		{Number: "5.2", Name: "Activation", Informative: true},
		{Number: "6", Name: "Two-way voice"},
		{Number: "6.1", Name: "Audio bandwidth"},
		{Number: "6.3", Name: "Caller ID"},
	} {
		if _, err := svc.CreateClause(ctx, r); err != nil {
			t.Fatalf("create clause %s: %v", r.Number, err)
		}
	}
	for _, s := range []clause.InfoSection{
		{Name: "Annex A", Order: 1, BodyHTML: "<p>annex</p>"},
		{Name: "Scope", Order: 2, ShowHeading: true},
		{Name: "Introduction", Order: 1},
	} {
		if _, err := svc.CreateInfo(ctx, s); err != nil {
			t.Fatalf("create info %s: %v", s.Name, err)
		}
	}
	if _, err := svc.CreatePreset(ctx, clause.Preset{Name: "Web", FrName: "Toile", Clauses: []string{"5.1", "6.3"}}); err != nil {
		t.Fatalf("create preset: %v", err)
	}
	return svc
}

func TestNoPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Clauses(context.Background()); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
	if err := svc.DeleteClause(context.Background(), "x"); !errors.Is(err, ErrNoPersistence) {
		t.Fatalf("expected ErrNoPersistence, got %v", err)
	}
}

func TestCreateClauseDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	existing, err := svc.Clause(ctx, "5.1")
	if err != nil {
		t.Fatalf("lookup by number: %v", err)
	}
	_, err = svc.CreateClause(ctx, clause.Record{Number: "5.1", Name: "again"})
	var exists *ExistsError
	if !errors.As(err, &exists) || !errors.Is(err, ErrExists) {
		t.Fatalf("expected ExistsError, got %v", err)
	}
	if exists.ID != existing.ID {
		t.Fatalf("ExistsError should carry the existing id %s, got %s", existing.ID, exists.ID)
	}
}

func TestUpdateClause(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	r, _ := svc.Clause(ctx, "6.1")
	r.Name = "Wideband audio"
	updated, err := svc.UpdateClause(ctx, r.ID, r)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Wideband audio" || updated.ID != r.ID {
		t.Fatalf("unexpected update result %+v", updated)
	}
	r.Number = "6.3"
	if _, err := svc.UpdateClause(ctx, r.ID, r); !errors.Is(err, ErrExists) {
		t.Fatalf("moving onto a taken number should fail, got %v", err)
	}
	if _, err := svc.UpdateClause(ctx, "missing", r); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteClauseBlockedByPreset(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	r, _ := svc.Clause(ctx, "6.3")
	err := svc.DeleteClause(ctx, r.ID)
	var refErr *ReferencedError
	if !errors.As(err, &refErr) || !errors.Is(err, ErrReferenced) {
		t.Fatalf("expected ReferencedError, got %v", err)
	}
	if len(refErr.Presets) != 1 || refErr.Presets[0].Name != "Web" {
		t.Fatalf("unexpected blocking presets: %+v", refErr.Presets)
	}

	free, _ := svc.Clause(ctx, "6.1")
	if err := svc.DeleteClause(ctx, free.ID); err != nil {
		t.Fatalf("delete unreferenced clause: %v", err)
	}
}

func TestPresetResolution(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	byName, err := svc.Preset(ctx, "web")
	if err != nil {
		t.Fatalf("by name: %v", err)
	}
	byFrench, err := svc.Preset(ctx, "TOILE")
	if err != nil || byFrench.ID != byName.ID {
		t.Fatalf("by french name: %+v %v", byFrench, err)
	}
	byID, err := svc.Preset(ctx, byName.ID)
	if err != nil || byID.Name != "Web" {
		t.Fatalf("by id: %+v %v", byID, err)
	}
	if _, err := svc.Preset(ctx, "Kiosk"); !errors.Is(err, ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
	c51, _ := svc.Clause(ctx, "5.1")
	c63, _ := svc.Clause(ctx, "6.3")
	if diff := cmp.Diff([]string{c51.ID, c63.ID}, byName.Clauses); diff != "" {
		t.Fatalf("preset clause numbers should be stored as ids (-want +got):\n%s", diff)
	}
	if _, err := svc.CreatePreset(ctx, clause.Preset{Name: "Web"}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected duplicate preset error, got %v", err)
	}
}

func TestSelectAndCompose(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)

	c, err := svc.Select(ctx, SelectionRequest{Preset: "Web"})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if diff := cmp.Diff([]string{"5.1", "5.2", "6.3"}, c.SelectedLeafIDs()); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}

	doc, err := svc.Compose(ctx, SelectionRequest{Preset: "Web", Select: []string{"6"}}, clause.LangFR, "")
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	var numbers []string
	for _, r := range doc.Clauses {
		numbers = append(numbers, r.Number)
	}
	if diff := cmp.Diff([]string{"5.1", "5.2", "6.1", "6.3"}, numbers); diff != "" {
		t.Fatalf("document clauses (-want +got):\n%s", diff)
	}
	if doc.Lang != clause.LangFR {
		t.Fatalf("language not carried")
	}
	if len(doc.Intro) != 2 || doc.Intro[0].Name != "Introduction" || len(doc.Annex) != 1 {
		t.Fatalf("unexpected intro/annex split: %+v / %+v", doc.Intro, doc.Annex)
	}

	if _, err := svc.Select(ctx, SelectionRequest{Select: []string{"99"}}); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected unknown clause error")
	}
	if _, err := svc.Select(ctx, SelectionRequest{Answers: []string{"telepathy"}}); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected unknown question error")
	}
}

func TestSelectAll(t *testing.T) {
	svc := seeded(t)
	c, err := svc.Select(context.Background(), SelectionRequest{All: true})
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := len(c.SelectedLeafIDs()); got != 4 {
		t.Fatalf("expected all 4 leaves selected, got %d", got)
	}
}

func TestInfoByIDOrName(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	byName, err := svc.Info(ctx, "annex a")
	if err != nil {
		t.Fatalf("info by name: %v", err)
	}
	byID, err := svc.Info(ctx, byName.ID)
	if err != nil {
		t.Fatalf("info by id: %v", err)
	}
	if byID.Name != "Annex A" {
		t.Fatalf("unexpected section %+v", byID)
	}
	if _, err := svc.Info(ctx, "Missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
