package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/a11yreq/pkg/clause"
)

// PresetOptions carry the editable fields of a preset.
type PresetOptions struct {
	Name          string
	FrName        string
	Description   string
	FrDescription string
	Order         int
	Clauses       []string
}

func AddPresetArgs(cmd *cobra.Command, o *PresetOptions) {
	cmd.Flags().StringVar(&o.Name, "name", "", "Preset name.")
	cmd.Flags().StringVar(&o.FrName, "fr-name", "", "French preset name.")
	cmd.Flags().StringVar(&o.Description, "description", "", "Description.")
	cmd.Flags().StringVar(&o.FrDescription, "fr-description", "", "French description.")
	cmd.Flags().IntVar(&o.Order, "order", 0, "Position among the presets.")
	cmd.Flags().StringSliceVar(&o.Clauses, "clauses", nil, "Clause numbers or ids, comma separated. Replaces the current list.")
}

// Apply copies every flag set on the command line into p.
func (o *PresetOptions) Apply(fs *pflag.FlagSet, p *clause.Preset) {
	set := changed(fs)
	if set["name"] {
		p.Name = o.Name
	}
	if set["fr-name"] {
		p.FrName = o.FrName
	}
	if set["description"] {
		p.Description = o.Description
	}
	if set["fr-description"] {
		p.FrDescription = o.FrDescription
	}
	if set["order"] {
		p.Order = o.Order
	}
	if set["clauses"] {
		p.Clauses = append([]string(nil), o.Clauses...)
	}
}
