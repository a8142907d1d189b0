package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/selector"
)

func addSelect(topLevel *cobra.Command) {
	so := &options.SelectionOptions{}
	do := &options.DocumentOptions{}

	cmd := &cobra.Command{
		Use:     "select",
		Aliases: []string{"ui"},
		Short:   "Pick clauses in a terminal tree, then generate",
		Long: `Open a keyboard driven tree of clauses. Arrows move and expand, space
toggles, p cycles presets and g generates the document with the chosen
clauses. ? lists every key.`,
		Example: `
a11yreq select
a11yreq select --preset "Web content" --format html --out requirements
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerate(cmd, do)
			if err != nil {
				return err
			}
			s := selector.Select{
				Service:  g.Service,
				Request:  so.Request(),
				Lang:     lang(),
				Generate: g,
				Out:      out(cmd),
			}
			return s.Do(contextFor(cmd))
		},
	}

	options.AddSelectionArgs(cmd, so)
	options.AddDocumentArgs(cmd, do)
	registerSelectionCompletions(cmd)
	registerFormatCompletion(cmd)

	topLevel.AddCommand(cmd)
}
