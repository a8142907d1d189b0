package selector

import (
	"bytes"
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/store"
)

type testConfig string

func (c testConfig) BasePath() string { return string(c) }

func TestQuitWithoutGenerating(t *testing.T) {
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if err := p.StoreClause(&clause.Record{Number: "5.1", Name: "Closed functionality"}); err != nil {
		t.Fatalf("store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	var ran bool
	s := &Select{
		Service: &app.Service{Persistence: p},
		Out:     &out,
		run: func(m tea.Model) (tea.Model, error) {
			ran = true
			return m, nil
		},
	}
	if err := s.Do(ctx); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !ran {
		t.Fatal("program not run")
	}
	if got := out.String(); got != "nothing generated\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRejectsUnexpectedModel(t *testing.T) {
	p, err := store.Load(testConfig(t.TempDir()))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &Select{
		Service: &app.Service{Persistence: p},
		run:     func(tea.Model) (tea.Model, error) { return nil, nil },
	}
	if err := s.Do(ctx); err == nil {
		t.Fatal("expected error")
	}
}
