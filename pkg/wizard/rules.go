// Package wizard maps yes/no answers about a product to a clause selection.
package wizard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/selection"
)

//go:embed rules.yaml
var defaultRules []byte

// Question is a single yes/no question.
type Question struct {
	ID     string `yaml:"id" json:"id"`
	Text   string `yaml:"text" json:"text"`
	FrText string `yaml:"frText,omitempty" json:"frText,omitempty"`
}

// LocalText returns the question text in lang, falling back to English.
func (q Question) LocalText(lang clause.Lang) string {
	if lang == clause.LangFR && q.FrText != "" {
		return q.FrText
	}
	return q.Text
}

// Rules is a wizard rule table.
type Rules struct {
	Questions []Question       `yaml:"questions" json:"questions"`
	Positive  []selection.Rule `yaml:"positive" json:"positive"`
	Negative  []selection.Rule `yaml:"negative,omitempty" json:"negative,omitempty"`
}

// Default returns the built in rule table.
func Default() *Rules {
	r, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("wizard: embedded rules: %v", err))
	}
	return r
}

// Load reads a rule table from path, or returns the default table when path
// is empty.
func Load(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML rule table.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("wizard: decode rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that questions are unique and that every rule names known
// questions.
func (r *Rules) Validate() error {
	known := make(map[string]bool, len(r.Questions))
	for _, q := range r.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return errors.New("wizard: question id required")
		}
		if known[q.ID] {
			return fmt.Errorf("wizard: duplicate question %q", q.ID)
		}
		known[q.ID] = true
	}
	check := func(kind string, rules []selection.Rule) error {
		for i, rule := range rules {
			if len(rule.Questions) == 0 {
				return fmt.Errorf("wizard: %s rule %d has no questions", kind, i)
			}
			for _, q := range rule.Questions {
				if !known[q] {
					return fmt.Errorf("wizard: %s rule %d names unknown question %q", kind, i, q)
				}
			}
		}
		return nil
	}
	if err := check("positive", r.Positive); err != nil {
		return err
	}
	return check("negative", r.Negative)
}

// Question returns the question with the given id.
func (r *Rules) Question(id string) (Question, bool) {
	for _, q := range r.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Answered filters answers down to known question ids, dropping duplicates
// and keeping question order.
func (r *Rules) Answered(answers []string) ([]string, error) {
	given := make(map[string]bool, len(answers))
	for _, a := range answers {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := r.Question(a); !ok {
			return nil, fmt.Errorf("wizard: unknown question %q", a)
		}
		given[a] = true
	}
	var out []string
	for _, q := range r.Questions {
		if given[q.ID] {
			out = append(out, q.ID)
		}
	}
	return out, nil
}

// Apply replaces the controller's selection with the one the answers imply.
func (r *Rules) Apply(c *selection.Controller, answered []string) {
	c.ApplyWizardRules(answered, r.Positive, r.Negative)
}
