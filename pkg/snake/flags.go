package snake

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/a11yreq/pkg/wizard"
)

// skipped flags are never offered.
var skipped = map[string]bool{"interactive": true, "help": true}

const continueName = "Continue..."

func asFlags(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("--%s, -%s", f.Name, f.Shorthand)
	}
	return fmt.Sprintf("--%s", f.Name)
}

// Flags returns the flags of cmd worth prompting for, local flags first.
func Flags(cmd *cobra.Command) []*pflag.Flag {
	var fs []*pflag.Flag
	seen := map[string]bool{}
	visit := func(f *pflag.Flag) {
		if f.Hidden || skipped[f.Name] || seen[f.Name] {
			return
		}
		seen[f.Name] = true
		fs = append(fs, f)
	}
	cmd.LocalFlags().VisitAll(visit)
	cmd.InheritedFlags().VisitAll(visit)
	return fs
}

// PromptFlags lets the user pick flags one at a time and answer each, until
// they choose to continue. Answers are set on the command's flag set.
func (p Prompter) PromptFlags(cmd *cobra.Command) error {
	fs := append(Flags(cmd), &pflag.Flag{
		Name:  continueName,
		Value: &continueType{},
	})

	templates := &promptui.SelectTemplates{
		Label:    "{{ . | magenta }} flags?",
		Active:   "➜ {{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }} {{ .Usage | cyan }}{{ end }}",
		Inactive: "  {{ if eq .Value.Type \"continue\" }}{{ .Name | faint | green }}{{ else }}{{ .Name }} {{ .Usage | cyan }}{{ end }}",
		Selected: "{{ if eq .Value.Type \"continue\" }}{{ .Name | bold | green }}{{ else }}{{ .Name | bold }}={{ .Value }}{{ end }}",
		Details: `
--------- Details ----------
current: {{ .Value }}
type: {{ .Value.Type }}
`,
	}

	searcher := func(input string, index int) bool {
		name := strings.ReplaceAll(strings.ToLower(fs[index].Name), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}

	index := 0
	for {
		prompt := promptui.Select{
			HideHelp:  true,
			Label:     cmd.Name(),
			Items:     fs,
			Templates: templates,
			Size:      10,
			CursorPos: index,
			Searcher:  searcher,
			Stdin:     p.stdin(),
			Stdout:    p.stdout(),
		}
		i, _, err := prompt.Run()
		if err != nil {
			return err
		}
		index = i
		f := fs[i]
		if f.Value.Type() == "continue" {
			return nil
		}
		value, ok, err := p.PromptFlag(f)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if err := cmd.Flags().Set(f.Name, value); err != nil {
			return err
		}
	}
}

// PromptFlag asks for one flag value. ok is false when the answer was left
// empty and the flag keeps its value.
func (p Prompter) PromptFlag(f *pflag.Flag) (value string, ok bool, err error) {
	label := fmt.Sprintf("%s %s [%s]", asFlags(f), f.Usage, hint(f))
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}
	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Validate:  Validator(f),
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	result, err := prompt.Run()
	if err != nil {
		return "", false, err
	}
	result = strings.TrimSpace(result)
	if result == "" {
		return "", false, nil
	}
	if f.Value.Type() == "bool" {
		b, _ := wizard.ParseBool(result)
		result = strconv.FormatBool(b)
	}
	return result, true, nil
}

func hint(f *pflag.Flag) string {
	switch f.Value.Type() {
	case "bool":
		if b, err := strconv.ParseBool(f.Value.String()); err == nil && b {
			return "[true]/false"
		}
		return "true/[false]"
	case "stringSlice", "stringArray":
		return "comma separated"
	}
	if v := f.Value.String(); v != "" {
		return fmt.Sprintf("%q", v)
	}
	return f.Value.Type()
}

// Validator checks an answer for f. An empty answer always passes.
func Validator(f *pflag.Flag) promptui.ValidateFunc {
	return func(input string) error {
		input = strings.TrimSpace(input)
		if input == "" {
			return nil
		}
		switch f.Value.Type() {
		case "bool":
			_, err := wizard.ParseBool(input)
			return err
		case "int":
			if _, err := strconv.Atoi(input); err != nil {
				return errors.New("not a number")
			}
		case "duration":
			_, err := time.ParseDuration(input)
			return err
		}
		return nil
	}
}

type continueType struct{}

func (*continueType) String() string { return "" }

func (*continueType) Set(string) error { return nil }

func (*continueType) Type() string { return "continue" }
