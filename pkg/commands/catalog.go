package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/catalog"
	"tableflip.dev/a11yreq/pkg/snake"
	"tableflip.dev/a11yreq/pkg/store"
)

// kind describes one family of catalogue commands.
type kind struct {
	store.Kind
	noun     string
	plural   string
	complete func(toComplete string) []string
}

var (
	clauseKind = kind{Kind: store.KindClause, noun: "clause", plural: "clauses", complete: clauseCompletions}
	infoKind   = kind{Kind: store.KindInfo, noun: "info", plural: "infos", complete: infoCompletions}
	presetKind = kind{Kind: store.KindPreset, noun: "preset", plural: "presets", complete: presetCompletions}
)

func (k kind) refCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return k.complete(toComplete), cobra.ShellCompDirectiveNoFileComp
}

// addGroup adds the parent command of a kind. With --interactive it walks
// the subcommands with prompts.
func addGroup(topLevel *cobra.Command, k kind, short string) *cobra.Command {
	i := &options.InteractiveOptions{}

	cmd := &cobra.Command{
		Use:     k.plural,
		Aliases: []string{k.noun},
		Short:   short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return snake.For(cmd).Run(cmd)
			}
			return cmd.Help()
		},
	}
	options.InteractiveArgs(cmd, i)

	addList(cmd, k)
	addShow(cmd, k)
	addDelete(cmd, k)

	topLevel.AddCommand(cmd)
	return cmd
}

func addList(group *cobra.Command, k kind) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List every " + k.noun,
		Example: `
a11yreq ` + k.plural + ` list
a11yreq ` + k.plural + ` list --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			l := catalog.List{
				Service: svc,
				Kind:    k.Kind,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				Lang:    lang(),
				Out:     out(cmd),
			}
			if len(args) > 0 {
				l.Query = args[0]
			}
			return handle(cmd, l.Do(contextFor(cmd)))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}

func addShow(group *cobra.Command, k kind) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:               "show <ref>",
		Short:             "Show one " + k.noun + " by id, number or name",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: k.refCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			s := catalog.Show{
				Service: svc,
				Kind:    k.Kind,
				Ref:     args[0],
				ShowID:  io.ShowID,
				JSON:    output.JSON,
				Lang:    lang(),
				Out:     out(cmd),
			}
			return handle(cmd, s.Do(contextFor(cmd)))
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}

func addDelete(group *cobra.Command, k kind) {
	cmd := &cobra.Command{
		Use:               "delete <ref>",
		Aliases:           []string{"rm"},
		Short:             "Delete one " + k.noun,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: k.refCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			d := catalog.Delete{
				Service: svc,
				Kind:    k.Kind,
				Ref:     args[0],
				Out:     out(cmd),
			}
			return handle(cmd, d.Do(contextFor(cmd)))
		},
	}

	options.AddOutputArg(cmd, output)

	group.AddCommand(cmd)
}

// saveArgs returns the positional arguments of add (none) or update (one ref).
func saveArgs(update bool) (string, cobra.PositionalArgs) {
	if update {
		return "update <ref>", cobra.ExactArgs(1)
	}
	return "add", cobra.NoArgs
}

// promptFlags fills flags interactively before an add or update runs.
func promptFlags(i *options.InteractiveOptions) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if i.Interactive {
			return snake.For(cmd).PromptFlags(cmd)
		}
		return nil
	}
}

func handle(cmd *cobra.Command, err error) error {
	output.Out = out(cmd)
	return output.HandleError(err)
}
