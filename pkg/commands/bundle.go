package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/runner/bundle"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <pattern>...",
		Short: "Merge bundle files into the catalogue",
		Long: `Merge JSON or YAML bundles of clauses, info sections and presets into the
catalogue. Patterns may use ** to match nested directories. Clauses with a
number already stored are updated in place.`,
		Example: `
a11yreq import catalogue.json
a11yreq import "bundles/**/*.yaml"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			i := bundle.Import{
				Service:  svc,
				Patterns: args,
				Out:      out(cmd),
			}
			return handle(cmd, i.Do(contextFor(cmd)))
		},
	}

	topLevel.AddCommand(cmd)
}

func addExport(topLevel *cobra.Command) {
	format := "json"
	path := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole catalogue as a bundle",
		Example: `
a11yreq export > catalogue.json
a11yreq export --format yaml --out catalogue.yaml
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service()
			if err != nil {
				return handle(cmd, err)
			}
			e := bundle.Export{
				Service: svc,
				Format:  format,
				Path:    path,
				S3:      s3Config(),
				Out:     out(cmd),
			}
			return handle(cmd, e.Do(contextFor(cmd)))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "Bundle format: json or yaml.")
	cmd.Flags().StringVarP(&path, "out", "o", "", "Write to a file or an s3://bucket/key object instead of stdout.")
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
