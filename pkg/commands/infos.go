package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/catalog"
)

func addInfos(topLevel *cobra.Command) {
	group := addGroup(topLevel, infoKind, "List, show and edit informative sections")
	addInfoSave(group, false)
	addInfoSave(group, true)
}

func addInfoSave(group *cobra.Command, update bool) {
	o := &options.InfoOptions{}
	i := &options.InteractiveOptions{}

	use, args := saveArgs(update)
	short := "Add an info section"
	if update {
		short = "Update the info section named by id or name"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: `
a11yreq infos add --name Introduction --order 1 --show-heading --body-file intro.html
a11yreq infos update "Annex A" --order 20
`,
		Args:    args,
		PreRunE: promptFlags(i),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			if err := o.Resolve(cmd.Flags()); err != nil {
				return handle(cmd, err)
			}
			s := catalog.SaveInfo{
				Service: svc,
				Edit: func(sec *clause.InfoSection) {
					o.Apply(cmd.Flags(), sec)
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
		cmd.ValidArgsFunction = infoKind.refCompletion
	}

	options.AddInfoArgs(cmd, o)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}
