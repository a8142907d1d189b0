package wizard

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/manifoldco/promptui"

	"tableflip.dev/a11yreq/pkg/clause"
)

// Asker answers a single yes/no question.
type Asker interface {
	Confirm(q Question) (bool, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(q Question) (bool, error)

// Confirm implements Asker.
func (f AskerFunc) Confirm(q Question) (bool, error) { return f(q) }

// Ask walks every question in order and returns the ids answered yes.
func (r *Rules) Ask(a Asker) ([]string, error) {
	var answered []string
	for _, q := range r.Questions {
		yes, err := a.Confirm(q)
		if err != nil {
			return nil, fmt.Errorf("wizard: %s: %w", q.ID, err)
		}
		if yes {
			answered = append(answered, q.ID)
		}
	}
	return answered, nil
}

// NewPrompter returns an Asker reading answers from a terminal.
func NewPrompter(in io.ReadCloser, out io.WriteCloser, lang clause.Lang) Asker {
	return &prompter{in: in, out: out, lang: lang}
}

type prompter struct {
	in   io.ReadCloser
	out  io.WriteCloser
	lang clause.Lang
}

func (p *prompter) Confirm(q Question) (bool, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} [y/N] ",
		Valid:   "{{ . | green }} [y/N] ",
		Invalid: "{{ . | red }} [y/N] ",
		Success: "{{ . | bold }} ",
	}

	prompt := promptui.Prompt{
		Label:     q.LocalText(p.lang),
		Templates: templates,
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			_, err := ParseBool(input)
			return err
		},
		Stdin:  p.in,
		Stdout: p.out,
	}

	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	if result == "" {
		return false, nil
	}
	return ParseBool(result)
}

// ParseBool is strconv.ParseBool with the addition of yes/no and oui/non.
func ParseBool(str string) (bool, error) {
	switch str {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes", "o", "O", "oui", "Oui", "OUI":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No", "non", "Non", "NON":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}
