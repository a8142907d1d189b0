package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/runner/generate"
)

func addGenerate(topLevel *cobra.Command) {
	so := &options.SelectionOptions{}
	do := &options.DocumentOptions{}

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Compose a requirements document from a selection",
		Long: `Compose a requirements document. The selection is built from --all,
--preset, --answers and --select, applied in that order. The document holds
the introductory sections, the selected clauses and their ancestors, then the
annexes.`,
		Example: `
a11yreq generate --preset "Web content" --format html --out requirements
a11yreq generate --answers vision,hearing --lang fr
a11yreq generate --select 5.2,9 --format text --width 72
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := newGenerate(cmd, do)
			if err != nil {
				return err
			}
			g.Request = so.Request()
			return g.Do(contextFor(cmd))
		},
	}

	options.AddSelectionArgs(cmd, so)
	options.AddDocumentArgs(cmd, do)
	registerSelectionCompletions(cmd)
	registerFormatCompletion(cmd)

	topLevel.AddCommand(cmd)
}

// newGenerate builds a generate runner from the document flags. The caller
// sets the request.
func newGenerate(cmd *cobra.Command, do *options.DocumentOptions) (*generate.Generate, error) {
	format, err := do.GetFormat()
	if err != nil {
		return nil, err
	}
	svc, err := service()
	if err != nil {
		return nil, err
	}
	return &generate.Generate{
		Service:  svc,
		Format:   format,
		Lang:     lang(),
		Title:    do.Title,
		Path:     do.Out,
		S3:       s3Config(),
		Width:    do.Width,
		Out:      out(cmd),
		Terminal: terminal(cmd),
	}, nil
}
