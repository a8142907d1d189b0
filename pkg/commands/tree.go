package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/tree"
)

func addTree(topLevel *cobra.Command) {
	so := &options.SelectionOptions{}
	io := &options.IDOptions{}
	states := false

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the clause hierarchy",
		Long: `Print the clause hierarchy. With a selection each clause shows its
checkbox: checked, mixed or unchecked.`,
		Example: `
a11yreq tree
a11yreq tree --preset "Web content"
a11yreq tree --select 5.2,9 --lang fr
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return err
			}
			t := tree.Tree{
				Service: svc,
				Request: so.Request(),
				States:  states,
				ShowID:  io.ShowID,
				Lang:    lang(),
				Out:     out(cmd),
			}
			return t.Do(contextFor(cmd))
		},
	}

	options.AddSelectionArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVar(&states, "states", false, "Show checkboxes even without a selection.")
	registerSelectionCompletions(cmd)

	topLevel.AddCommand(cmd)
}
