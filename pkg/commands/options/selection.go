package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/app"
)

// SelectionOptions build a one-shot selection. They apply in flag order:
// --all, then --preset, then --answers, then --select.
type SelectionOptions struct {
	All     bool
	Preset  string
	Answers []string
	Select  []string
}

func AddSelectionArgs(cmd *cobra.Command, o *SelectionOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Start from every clause.")
	cmd.Flags().StringVarP(&o.Preset, "preset", "p", "",
		"Apply a preset by id or name.")
	cmd.Flags().StringSliceVar(&o.Answers, "answers", nil,
		"Wizard question ids answered yes, comma separated.")
	cmd.Flags().StringSliceVarP(&o.Select, "select", "s", nil,
		"Clause numbers or branches to select, comma separated.")
}

// Request returns the selection request the flags describe.
func (o *SelectionOptions) Request() app.SelectionRequest {
	return app.SelectionRequest{
		All:     o.All,
		Preset:  o.Preset,
		Answers: o.Answers,
		Select:  o.Select,
	}
}
