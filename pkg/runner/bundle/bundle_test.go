package bundle

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func newService(t *testing.T) *app.Service {
	t.Helper()
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return &app.Service{Persistence: p}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestImportGlobsNestedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "en301549", "clauses.json"), `[{"number":"5","name":"Generic"},{"number":"5.1","name":"Closed"}]`)
	writeFile(t, filepath.Join(dir, "en301549", "extra", "presets.yaml"), "presets:\n  - name: Kiosks\n    clauses: [\"5.1\"]\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	svc := newService(t)
	var buf bytes.Buffer
	imp := &Import{Service: svc, Patterns: []string{filepath.Join(dir, "**", "*.json"), filepath.Join(dir, "**", "*.yaml")}, Out: &buf}
	if err := imp.Do(ctx); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(buf.String(), "imported 2 files: 3 created") {
		t.Fatalf("unexpected summary %q", buf.String())
	}
	presets, err := svc.Presets(ctx)
	if err != nil || len(presets) != 1 {
		t.Fatalf("presets: %+v %v", presets, err)
	}
	r, err := svc.Clause(ctx, "5.1")
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	if !presets[0].References(r.ID) {
		t.Fatalf("preset does not reference 5.1: %+v", presets[0])
	}
}

func TestImportNoMatches(t *testing.T) {
	imp := &Import{Service: newService(t), Patterns: []string{filepath.Join(t.TempDir(), "*.json")}}
	if err := imp.Do(context.Background()); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("expected ErrNoFiles, got %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newService(t)
	if _, err := src.CreateClause(ctx, clause.Record{Number: "9.1", Name: "Perceivable", FrName: "Perceptible"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bundle."+format)
			if err := (&Export{Service: src, Format: format, Path: path}).Do(ctx); err != nil {
				t.Fatalf("export: %v", err)
			}
			dst := newService(t)
			if err := (&Import{Service: dst, Patterns: []string{path}, Out: &bytes.Buffer{}}).Do(ctx); err != nil {
				t.Fatalf("import: %v", err)
			}
			r, err := dst.Clause(ctx, "9.1")
			if err != nil || r.FrName != "Perceptible" {
				t.Fatalf("round trip lost data: %+v %v", r, err)
			}
		})
	}
}
