package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/catalog"
)

func addClauses(topLevel *cobra.Command) {
	group := addGroup(topLevel, clauseKind, "List, show and edit clauses")
	addClauseSave(group, false)
	addClauseSave(group, true)
}

func addClauseSave(group *cobra.Command, update bool) {
	co := &options.ClauseOptions{}
	i := &options.InteractiveOptions{}

	use, args := saveArgs(update)
	short := "Add a clause"
	if update {
		short = "Update the clause named by id or number"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: `
a11yreq clauses add --number 5.2 --name "Activation of accessibility features"
a11yreq clauses update 5.2 --fr-name "Activation des fonctions d'accessibilité"
a11yreq clauses add -i
`,
		Args:    args,
		PreRunE: promptFlags(i),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			s := catalog.SaveClause{
				Service: svc,
				Edit: func(r *clause.Record) {
					co.Apply(cmd.Flags(), r)
				},
				JSON: output.JSON,
				Out:  out(cmd),
			}
			if update {
				s.Ref = args[0]
			}
			return handle(cmd, s.Do(contextFor(cmd)))
		},
	}
	if update {
		cmd.ValidArgsFunction = clauseKind.refCompletion
	}

	options.AddClauseArgs(cmd, co)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}
