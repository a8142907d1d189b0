package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/render"
	"tableflip.dev/a11yreq/pkg/store"
	"tableflip.dev/a11yreq/pkg/wizard"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generates shell completion scripts",
		Long: `To load completion run

. <(a11yreq completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(a11yreq completion)
`,
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			switch shell {
			case "bash":
				return topLevel.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return topLevel.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return topLevel.GenFishCompletion(cmd.OutOrStdout(), true)
			}
			return fmt.Errorf("unsupported shell %q", shell)
		},
	}

	topLevel.AddCommand(cmd)
}

// completionService opens the store for shell completion, where the root
// pre-run has not loaded the configuration.
func completionService() *app.Service {
	cfg := settings
	if cfg == nil {
		var err error
		if cfg, err = store.LoadConfig(); err != nil {
			return nil
		}
	}
	p, err := store.Load(cfg, store.WithDriver(cfg.Driver))
	if err != nil {
		return nil
	}
	opened = append(opened, p)
	svc := &app.Service{Persistence: p}
	if cfg.Rules != "" {
		svc.Rules, _ = wizard.Load(cfg.Rules)
	}
	return svc
}

func clauseCompletions(toComplete string) []string {
	svc := completionService()
	if svc == nil {
		return nil
	}
	records, err := svc.Clauses(context.Background())
	if err != nil {
		return nil
	}
	var out []string
	for _, r := range records {
		if strings.HasPrefix(r.Number, toComplete) {
			out = append(out, r.Number+"\t"+r.Name)
		}
	}
	return out
}

func infoCompletions(toComplete string) []string {
	svc := completionService()
	if svc == nil {
		return nil
	}
	infos, err := svc.Infos(context.Background())
	if err != nil {
		return nil
	}
	var out []string
	for _, s := range infos {
		if strings.HasPrefix(strings.ToLower(s.Name), strings.ToLower(toComplete)) {
			out = append(out, strconv.Quote(s.Name))
		}
	}
	return out
}

func presetCompletions(toComplete string) []string {
	svc := completionService()
	if svc == nil {
		return nil
	}
	presets, err := svc.Presets(context.Background())
	if err != nil {
		return nil
	}
	var out []string
	for _, p := range presets {
		if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(toComplete)) {
			out = append(out, strconv.Quote(p.Name))
		}
	}
	return out
}

func questionCompletions(toComplete string) []string {
	svc := completionService()
	if svc == nil {
		return nil
	}
	var out []string
	for _, q := range svc.WizardRules().Questions {
		if strings.HasPrefix(q.ID, toComplete) {
			out = append(out, q.ID+"\t"+q.Text)
		}
	}
	return out
}

func registerSelectionCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return presetCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("select", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return clauseCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("answers", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return questionCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, f := range render.Formats {
			out = append(out, string(f))
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	})
}
