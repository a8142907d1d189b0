package clause

import (
	"fmt"
	"strings"
)

// Lang selects which translation of the catalogue payload to use.
type Lang string

const (
	// LangEN is the default English payload.
	LangEN Lang = "en"
	// LangFR selects the French payload, falling back to English when a
	// translation is missing.
	LangFR Lang = "fr"
)

// ParseLang converts a string to a Lang or returns an error for unknown values.
func ParseLang(raw string) (Lang, error) {
	l := Lang(strings.ToLower(strings.TrimSpace(raw)))
	switch l {
	case "":
		return LangEN, nil
	case LangEN, LangFR:
		return l, nil
	default:
		return LangEN, fmt.Errorf("clause: unknown language %q", raw)
	}
}

func pick(lang Lang, en, fr string) string {
	if lang == LangFR && strings.TrimSpace(fr) != "" {
		return fr
	}
	return en
}

// LocalName returns the clause name in lang.
func (r Record) LocalName(lang Lang) string { return pick(lang, r.Name, r.FrName) }

// LocalDescription returns the clause description in lang.
func (r Record) LocalDescription(lang Lang) string {
	return pick(lang, r.Description, r.FrDescription)
}

// LocalCompliance returns the compliance criteria in lang.
func (r Record) LocalCompliance(lang Lang) string {
	return pick(lang, r.Compliance, r.FrCompliance)
}

// LocalName returns the preset name in lang.
func (p Preset) LocalName(lang Lang) string { return pick(lang, p.Name, p.FrName) }

// LocalDescription returns the preset description in lang.
func (p Preset) LocalDescription(lang Lang) string {
	return pick(lang, p.Description, p.FrDescription)
}
