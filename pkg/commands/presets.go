package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/catalog"
)

func addPresets(topLevel *cobra.Command) {
	group := addGroup(topLevel, presetKind, "List, show and edit presets")
	addPresetSave(group, false)
	addPresetSave(group, true)
}

func addPresetSave(group *cobra.Command, update bool) {
	o := &options.PresetOptions{}
	i := &options.InteractiveOptions{}

	use, args := saveArgs(update)
	short := "Add a preset"
	if update {
		short = "Update the preset named by id or name"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Example: `
a11yreq presets add --name "Web content" --clauses 9,11.8
a11yreq presets update "Web content" --fr-name "Contenu Web"
`,
		Args:    args,
		PreRunE: promptFlags(i),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			s := catalog.SavePreset{
				Service: svc,
				Edit: func(p *clause.Preset) {
					o.Apply(cmd.Flags(), p)
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
		cmd.ValidArgsFunction = presetKind.refCompletion
	}
	_ = cmd.RegisterFlagCompletionFunc("clauses", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return clauseCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	options.AddPresetArgs(cmd, o)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}
