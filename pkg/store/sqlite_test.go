package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/a11yreq/pkg/clause"
)

func newSQLiteStore(t *testing.T, dir string) Persistence {
	t.Helper()
	p, err := Load(testConfig{path: dir}, WithDriver(DriverSQLite))
	if err != nil {
		t.Fatalf("load sqlite persistence: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := newSQLiteStore(t, t.TempDir())

	for _, number := range []string{"5.10", "5", "5.9"} {
		if err := p.StoreClause(&clause.Record{Number: number, Name: "clause " + number}); err != nil {
			t.Fatalf("store %s: %v", number, err)
		}
	}
	all, err := p.Clauses(ctx)
	if err != nil {
		t.Fatalf("clauses: %v", err)
	}
	if diff := cmp.Diff([]string{"5", "5.9", "5.10"}, clauseNumbers(all)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}

	r := all[0]
	r.FrName = "clause cinq"
	if err := p.StoreClause(&r); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := p.Clause(ctx, r.ID)
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	if got.FrName != "clause cinq" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := p.DeleteClause(r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Clause(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := p.DeleteClause(r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := Load(testConfig{path: dir}, WithDriver(DriverSQLite))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := first.StorePreset(&clause.Preset{Name: "Web", Clauses: []string{"9.1"}}); err != nil {
		t.Fatalf("store preset: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	presets, err := newSQLiteStore(t, dir).Presets(ctx)
	if err != nil {
		t.Fatalf("presets: %v", err)
	}
	if len(presets) != 1 || presets[0].Name != "Web" {
		t.Fatalf("presets after reopen = %+v", presets)
	}
}

func TestUnknownDriver(t *testing.T) {
	if _, err := Load(testConfig{path: t.TempDir()}, WithDriver("bolt")); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
