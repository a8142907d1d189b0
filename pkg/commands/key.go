package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/runner/key"
)

func addKey(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the checkbox states and tree markers",
		Example: `
a11yreq key
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			k := key.Key{Out: out(cmd)}
			err := k.Do(contextFor(cmd))
			return handle(cmd, err)
		},
	}

	topLevel.AddCommand(cmd)
}
