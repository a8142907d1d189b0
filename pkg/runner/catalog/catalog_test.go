package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func newService(t *testing.T) *app.Service {
	t.Helper()
	color.NoColor = true
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	svc := &app.Service{Persistence: p}
	ctx := context.Background()
	for _, r := range []clause.Record{
		{Number: "5", Name: "Generic requirements"},
		{Number: "5.1", Name: "Closed functionality"},
		{Number: "9", Name: "Web"},
		{Number: "9.1", Name: "Perceivable"},
	} {
		if _, err := svc.CreateClause(ctx, r); err != nil {
			t.Fatalf("create %s: %v", r.Number, err)
		}
	}
	if _, err := svc.CreatePreset(ctx, clause.Preset{Name: "Web", Description: "<p>Sites and apps.</p>", Clauses: []string{"9.1"}}); err != nil {
		t.Fatalf("create preset: %v", err)
	}
	return svc
}

func TestListClausesJSONFiltered(t *testing.T) {
	svc := newService(t)
	var buf bytes.Buffer
	l := &List{Service: svc, Kind: store.KindClause, Query: "9", JSON: true, Out: &buf}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	var got []clause.Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var numbers []string
	for _, r := range got {
		numbers = append(numbers, r.Number)
	}
	if diff := cmp.Diff([]string{"9", "9.1"}, numbers); diff != "" {
		t.Fatalf("numbers (-want +got):\n%s", diff)
	}
}

func TestListPresetsPretty(t *testing.T) {
	svc := newService(t)
	var buf bytes.Buffer
	l := &List{Service: svc, Kind: store.KindPreset, Out: &buf}
	if err := l.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(buf.String(), "Web") || !strings.Contains(buf.String(), "1 clauses") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestShowPresetListsClauses(t *testing.T) {
	svc := newService(t)
	var buf bytes.Buffer
	s := &Show{Service: svc, Kind: store.KindPreset, Ref: "web", Out: &buf}
	if err := s.Do(context.Background()); err != nil {
		t.Fatalf("show: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"Web - 1 item", "Sites and apps.", "9.1", "Perceivable"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Closed functionality") {
		t.Errorf("unexpected clause in:\n%s", got)
	}
}

func TestSaveClauseCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var buf bytes.Buffer

	create := &SaveClause{Service: svc, Out: &buf, Edit: func(r *clause.Record) {
		r.Number = "5.2"
		r.Name = "Activation"
	}}
	if err := create.Do(ctx); err != nil {
		t.Fatalf("create: %v", err)
	}
	update := &SaveClause{Service: svc, Ref: "5.2", Out: &buf, Edit: func(r *clause.Record) {
		r.Informative = true
	}}
	if err := update.Do(ctx); err != nil {
		t.Fatalf("update: %v", err)
	}
	r, err := svc.Clause(ctx, "5.2")
	if err != nil {
		t.Fatalf("clause: %v", err)
	}
	if r.Name != "Activation" || !r.Informative {
		t.Fatalf("unexpected clause %+v", r)
	}

	dup := &SaveClause{Service: svc, Out: &buf, Edit: func(r *clause.Record) {
		r.Number = "5.1"
		r.Name = "again"
	}}
	if err := dup.Do(ctx); !errors.Is(err, app.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
}

func TestDeleteClauseBlockedThenAllowed(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var buf bytes.Buffer

	d := &Delete{Service: svc, Kind: store.KindClause, Ref: "9.1", Out: &buf}
	if err := d.Do(ctx); !errors.Is(err, app.ErrReferenced) {
		t.Fatalf("expected ErrReferenced, got %v", err)
	}
	if err := (&Delete{Service: svc, Kind: store.KindPreset, Ref: "Web", Out: &buf}).Do(ctx); err != nil {
		t.Fatalf("delete preset: %v", err)
	}
	if err := d.Do(ctx); err != nil {
		t.Fatalf("delete clause: %v", err)
	}
	if !strings.Contains(buf.String(), "deleted clause 9.1") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
