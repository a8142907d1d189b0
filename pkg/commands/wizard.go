package commands

import (
	"io"

	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/wizard"
	"tableflip.dev/a11yreq/pkg/snake"
	rules "tableflip.dev/a11yreq/pkg/wizard"
)

func addWizard(topLevel *cobra.Command) {
	do := &options.DocumentOptions{}
	preset := ""
	render := false

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Answer yes/no questions to select clauses",
		Long: `Ask each wizard question in turn. Every yes selects the clauses its rule
names, on top of --preset. The result is printed as a tree, or rendered as a
document with --generate.`,
		Example: `
a11yreq wizard
a11yreq wizard --preset "Web content" --generate --format html --out requirements
a11yreq wizard --rules ./rules.yaml --lang fr
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}
			w := wizard.Wizard{
				Service: svc,
				Asker:   rules.NewPrompter(io.NopCloser(cmd.InOrStdin()), snake.NopCloser(out(cmd)), lang()),
				Preset:  preset,
				Lang:    lang(),
				Out:     out(cmd),
			}
			if render {
				if w.Generate, err = newGenerate(cmd, do); err != nil {
					return err
				}
			}
			return w.Do(contextFor(cmd))
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "Start from a preset by id or name.")
	cmd.Flags().BoolVarP(&render, "generate", "g", false, "Render a document instead of printing the tree.")
	options.AddDocumentArgs(cmd, do)
	_ = cmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return presetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	registerFormatCompletion(cmd)

	topLevel.AddCommand(cmd)
}
