// Package snake walks a cobra command tree interactively: pick a subcommand,
// answer its arguments, then fill in its flags.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// Prompter reads answers from In and draws prompts on Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

// For returns a Prompter bound to the command's streams.
func For(cmd *cobra.Command) Prompter {
	return Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
}

func (p Prompter) stdin() io.ReadCloser {
	return io.NopCloser(p.In)
}

func (p Prompter) stdout() io.WriteCloser {
	return NopCloser(p.Out)
}

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// Runnable returns the visible subcommands of cmd that do something.
func Runnable(cmd *cobra.Command) []*cobra.Command {
	var out []*cobra.Command
	for _, c := range cmd.Commands() {
		if c.Hidden || !c.IsAvailableCommand() {
			continue
		}
		if c.Runnable() || c.HasAvailableSubCommands() {
			out = append(out, c)
		}
	}
	return out
}

// PromptNext asks for one of cmd's subcommands, descending until it reaches
// one without children.
func (p Prompter) PromptNext(cmd *cobra.Command) (*cobra.Command, error) {
	subcommands := Runnable(cmd)
	if len(subcommands) == 0 {
		return cmd, nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Name | bold }} {{ .Short | green }}",
		Inactive: "   {{ .Name }} {{ .Short | cyan }}",
		Selected: "{{ .Use | bold }}",
		Details: `
--------- Details ----------
{{ .Long }}
`,
	}

	searcher := func(input string, index int) bool {
		subcommand := subcommands[index]
		name := strings.ReplaceAll(strings.ToLower(subcommand.Name()+subcommand.Short), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}

	prompt := promptui.Select{
		HideHelp:  true,
		Label:     cmd.Name(),
		Items:     subcommands,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}

	i, _, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	next := subcommands[i]
	if next.HasAvailableSubCommands() {
		return p.PromptNext(next)
	}
	return next, nil
}

// Arg is a positional argument named in a command's Use line, like <ref> or
// [pattern...].
type Arg struct {
	Name     string
	Required bool
	Variadic bool
}

// Args parses the positional arguments out of use.
func Args(use string) []Arg {
	fields := strings.Fields(use)
	if len(fields) < 2 {
		return nil
	}
	var args []Arg
	for _, f := range fields[1:] {
		var a Arg
		switch {
		case strings.HasPrefix(f, "<") && strings.HasSuffix(strings.TrimSuffix(f, "..."), ">"):
			a.Required = true
		case strings.HasPrefix(f, "[") && strings.HasSuffix(strings.TrimSuffix(f, "..."), "]"):
		default:
			continue
		}
		a.Variadic = strings.HasSuffix(f, "...")
		a.Name = strings.Trim(strings.TrimSuffix(f, "..."), "<>[]")
		if a.Name == "flags" {
			continue
		}
		args = append(args, a)
	}
	return args
}

// PromptArgs asks for every positional argument cmd declares. Variadic
// answers are split on whitespace.
func (p Prompter) PromptArgs(cmd *cobra.Command) ([]string, error) {
	var out []string
	for _, a := range Args(cmd.Use) {
		a := a
		prompt := promptui.Prompt{
			Label: a.Name,
			Validate: func(input string) error {
				if a.Required && strings.TrimSpace(input) == "" {
					return errors.New("required")
				}
				return nil
			},
			Stdin:  p.stdin(),
			Stdout: p.stdout(),
		}
		result, err := prompt.Run()
		if err != nil {
			return nil, err
		}
		result = strings.TrimSpace(result)
		switch {
		case result == "":
		case a.Variadic:
			out = append(out, strings.Fields(result)...)
		default:
			out = append(out, result)
		}
	}
	return out, nil
}

// Run prompts for a subcommand of cmd, its arguments and flags, then runs it.
// The chosen command runs without its own pre-run hooks.
func (p Prompter) Run(cmd *cobra.Command) error {
	next, err := p.PromptNext(cmd)
	if err != nil {
		return err
	}
	if next == cmd || next.RunE == nil {
		return fmt.Errorf("%s: nothing to run", next.CommandPath())
	}
	args, err := p.PromptArgs(next)
	if err != nil {
		return err
	}
	if next.Args != nil {
		if err := next.Args(next, args); err != nil {
			return err
		}
	}
	if err := p.PromptFlags(next); err != nil {
		return err
	}
	return next.RunE(next, args)
}
