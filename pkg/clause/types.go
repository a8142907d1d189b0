// Package clause defines the catalogue records used to compose requirements
// documents: clauses (functional performance statements), informative
// sections and presets.
package clause

import (
	"errors"
	"sort"
	"strings"
)

// Record is a single catalogue clause. Number is the dotted hierarchical
// identifier ("11.5.2.1") that places the clause in the tree.
type Record struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Name          string `json:"name"`
	FrName        string `json:"frName,omitempty"`
	Description   string `json:"description,omitempty"`
	FrDescription string `json:"frDescription,omitempty"`
	Compliance    string `json:"compliance,omitempty"`
	FrCompliance  string `json:"frCompliance,omitempty"`
	Informative   bool   `json:"informative"`
}

// InfoSection is ordered free-form content outside the clause hierarchy.
type InfoSection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Order       int    `json:"order"`
	ShowHeading bool   `json:"showHeading"`
	BodyHTML    string `json:"bodyHtml,omitempty"`
}

// Preset is a named, saved selection of clauses referenced by record id.
type Preset struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	FrName        string   `json:"frName,omitempty"`
	Description   string   `json:"description,omitempty"`
	FrDescription string   `json:"frDescription,omitempty"`
	Order         int      `json:"order"`
	Clauses       []string `json:"clauses"`
}

var (
	// ErrNumberRequired is returned when a clause has no number.
	ErrNumberRequired = errors.New("clause: number required")
	// ErrNameRequired is returned when a record has no name.
	ErrNameRequired = errors.New("clause: name required")
)

// Validate checks the fields the editing backend requires.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Number) == "" {
		return ErrNumberRequired
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Validate checks the fields the editing backend requires.
func (s InfoSection) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Validate checks the fields the editing backend requires.
func (p Preset) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// References reports whether the preset includes the clause id.
func (p Preset) References(clauseID string) bool {
	for _, id := range p.Clauses {
		if id == clauseID {
			return true
		}
	}
	return false
}

// IsAnnex reports whether an info section belongs in the annex of a
// generated document.
func IsAnnex(name string) bool {
	return strings.HasPrefix(name, "Annex")
}

// SplitSections partitions sections into intro and annex content, each
// ordered by Order.
func SplitSections(sections []InfoSection) (intro, annex []InfoSection) {
	for _, s := range sections {
		if IsAnnex(s.Name) {
			annex = append(annex, s)
			continue
		}
		intro = append(intro, s)
	}
	SortSections(intro)
	SortSections(annex)
	return intro, annex
}

// SortSections orders sections by Order, then name.
func SortSections(sections []InfoSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].Order != sections[j].Order {
			return sections[i].Order < sections[j].Order
		}
		return sections[i].Name < sections[j].Name
	})
}

// SortPresets orders presets by Order, then name.
func SortPresets(presets []Preset) {
	sort.SliceStable(presets, func(i, j int) bool {
		if presets[i].Order != presets[j].Order {
			return presets[i].Order < presets[j].Order
		}
		return presets[i].Name < presets[j].Name
	})
}

// SortRecords orders records naturally by number.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Compare(records[i].Number, records[j].Number) < 0
	})
}
