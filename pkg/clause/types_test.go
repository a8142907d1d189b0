package clause

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	if err := (Record{Name: "x"}).Validate(); !errors.Is(err, ErrNumberRequired) {
		t.Fatalf("expected number required, got %v", err)
	}
	if err := (Record{Number: "5"}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
	if err := (Record{Number: "5", Name: "Usage without vision"}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (InfoSection{}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected info name required, got %v", err)
	}
	if err := (Preset{Name: " "}).Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected preset name required, got %v", err)
	}
}

func TestSplitSections(t *testing.T) {
	sections := []InfoSection{
		{Name: "Annex B", Order: 9},
		{Name: "Scope", Order: 2},
		{Name: "Annex A", Order: 8},
		{Name: "Introduction", Order: 1},
		{Name: "About the Annexes", Order: 3},
	}
	intro, annex := SplitSections(sections)
	if len(intro) != 3 || len(annex) != 2 {
		t.Fatalf("unexpected split: intro=%d annex=%d", len(intro), len(annex))
	}
	if intro[0].Name != "Introduction" || intro[2].Name != "About the Annexes" {
		t.Fatalf("intro not ordered: %+v", intro)
	}
	if annex[0].Name != "Annex A" {
		t.Fatalf("annex not ordered: %+v", annex)
	}
}

func TestPresetReferences(t *testing.T) {
	p := Preset{Name: "Laptops", Clauses: []string{"a", "b"}}
	if !p.References("b") || p.References("c") {
		t.Fatalf("unexpected references result")
	}
}

func TestLocalized(t *testing.T) {
	r := Record{Name: "Usage without vision", FrName: "Utilisation sans la vision", Description: "d"}
	if got := r.LocalName(LangFR); got != "Utilisation sans la vision" {
		t.Fatalf("fr name = %q", got)
	}
	if got := r.LocalDescription(LangFR); got != "d" {
		t.Fatalf("missing fr description should fall back, got %q", got)
	}
	if _, err := ParseLang("de"); err == nil {
		t.Fatalf("expected error for unknown language")
	}
	if l, err := ParseLang(" FR "); err != nil || l != LangFR {
		t.Fatalf("ParseLang = %q, %v", l, err)
	}
}

func TestPlainText(t *testing.T) {
	in := `<p>Where ICT provides <strong>visual</strong> modes:</p><ul><li>one</li><li>two</li></ul><script>x()</script>`
	want := "Where ICT provides visual modes:\n\n- one\n- two"
	if got := PlainText(in); got != want {
		t.Fatalf("PlainText = %q, want %q", got, want)
	}
	if PlainText("   ") != "" {
		t.Fatalf("blank input should produce empty text")
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	tests := map[string]string{
		`<p>Closed functionality</p><p>No screen reader</p>`: "Closed functionality\nNo screen reader",
		`<h3>Note</h3><p>See <a href="#x">annex</a>.</p>`:    "Note\nSee annex.",
		`plain text`: "plain text",
	}
	for in, want := range tests {
		got := PlainText(in)
		if got != want {
			t.Errorf("PlainText(%q) = %q, want %q", in, got, want)
		}
		if strings.ContainsAny(got, "<>") {
			t.Errorf("PlainText(%q) kept markup: %q", in, got)
		}
	}
}

func TestUnmarshalBundle(t *testing.T) {
	yamlDoc := []byte(`
clauses:
  - number: "5"
    name: Generic requirements
  - number: "5.1"
    name: Closed functionality
    informative: true
presets:
  - name: Laptops
    clauses: ["a"]
`)
	b, err := UnmarshalBundle(yamlDoc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Clauses) != 2 || !b.Clauses[1].Informative {
		t.Fatalf("unexpected clauses: %+v", b.Clauses)
	}
	if len(b.Presets) != 1 || b.Presets[0].Clauses[0] != "a" {
		t.Fatalf("unexpected presets: %+v", b.Presets)
	}

	list, err := UnmarshalBundle([]byte(`[{"number":"6","name":"ICT with two-way voice"}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Clauses) != 1 || list.Clauses[0].Number != "6" {
		t.Fatalf("bare list not read as clauses: %+v", list)
	}
}

func TestBundleYAMLKeepsTranslations(t *testing.T) {
	in := Bundle{
		Clauses: []Record{{Number: "5.1", Name: "Closed functionality", FrName: "Fonctionnalité fermée"}},
		Infos:   []InfoSection{{Name: "Scope", Order: 1, BodyHTML: "<p>x</p>"}},
		Presets: []Preset{{Name: "Kiosks", FrName: "Bornes", Clauses: []string{"5.1"}}},
	}
	data, err := MarshalBundleYAML(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := UnmarshalBundle(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Clauses[0].FrName != "Fonctionnalité fermée" || out.Presets[0].FrName != "Bornes" || out.Infos[0].BodyHTML != "<p>x</p>" {
		t.Fatalf("translations lost:\n%s", data)
	}
}
