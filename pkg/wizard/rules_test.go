package wizard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/clause/tree"
	"tableflip.dev/a11yreq/pkg/selection"
)

func TestDefaultRulesValid(t *testing.T) {
	r := Default()
	if len(r.Questions) == 0 || len(r.Positive) == 0 {
		t.Fatalf("default rules are empty")
	}
	if _, ok := r.Question("hardware"); !ok {
		t.Fatalf("hardware question missing")
	}
}

func TestParseRejectsUnknownQuestion(t *testing.T) {
	_, err := Parse([]byte(`
questions:
  - id: web
    text: Web?
positive:
  - questions: [mobile]
    clauses: ["9"]
`))
	if err == nil {
		t.Fatalf("expected unknown question error")
	}
	if _, err := Parse([]byte("questions:\n  - id: a\n  - id: a\n")); err == nil {
		t.Fatalf("expected duplicate question error")
	}
}

func TestAnswered(t *testing.T) {
	r := Default()
	got, err := r.Answered([]string{"web", "hardware", "web", " "})
	if err != nil {
		t.Fatalf("answered: %v", err)
	}
	if diff := cmp.Diff([]string{"hardware", "web"}, got); diff != "" {
		t.Fatalf("answered (-want +got):\n%s", diff)
	}
	if _, err := r.Answered([]string{"nope"}); err == nil {
		t.Fatalf("expected unknown question error")
	}
}

func TestApply(t *testing.T) {
	r, err := Parse([]byte(`
questions:
  - id: hardware
    text: Hardware?
  - id: shared
    text: Shared?
positive:
  - questions: [hardware]
    clauses: ["5.5"]
  - questions: [shared]
    clauses: ["5.5", "5.1"]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	c := selection.New(tree.Build([]clause.Record{
		{Number: "5"}, {Number: "5.1"}, {Number: "5.5"},
	}))
	r.Apply(c, []string{"hardware"})
	if diff := cmp.Diff([]string{"5.5"}, c.SelectedLeafIDs()); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}
	r.Apply(c, nil)
	if got := c.SelectedLeafIDs(); len(got) != 0 {
		t.Fatalf("expected nothing selected, got %v", got)
	}
}

func TestAsk(t *testing.T) {
	r := Default()
	got, err := r.Ask(AskerFunc(func(q Question) (bool, error) {
		return q.ID == "web" || q.ID == "software", nil
	}))
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if diff := cmp.Diff([]string{"web", "software"}, got); diff != "" {
		t.Fatalf("answers (-want +got):\n%s", diff)
	}

	boom := errors.New("boom")
	if _, err := r.Ask(AskerFunc(func(Question) (bool, error) { return false, boom })); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"y": true, "oui": true, "No": false, "0": false} {
		got, err := ParseBool(in)
		if err != nil || got != want {
			t.Errorf("ParseBool(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseBool("maybe"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLocalText(t *testing.T) {
	q := Question{Text: "Web?", FrText: "Web ?"}
	if q.LocalText(clause.LangFR) != "Web ?" || q.LocalText(clause.LangEN) != "Web?" {
		t.Fatalf("unexpected localized text")
	}
}
