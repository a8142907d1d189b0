package options

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/a11yreq/pkg/clause"
)

// ClauseOptions carry the editable fields of a clause.
type ClauseOptions struct {
	Number        string
	Name          string
	FrName        string
	Description   string
	FrDescription string
	Compliance    string
	FrCompliance  string
	Informative   bool
}

func AddClauseArgs(cmd *cobra.Command, o *ClauseOptions) {
	cmd.Flags().StringVar(&o.Number, "number", "", `Dotted clause number, example: --number="11.5.2.1".`)
	cmd.Flags().StringVar(&o.Name, "name", "", "Clause name.")
	cmd.Flags().StringVar(&o.FrName, "fr-name", "", "French clause name.")
	cmd.Flags().StringVar(&o.Description, "description", "", "Description HTML.")
	cmd.Flags().StringVar(&o.FrDescription, "fr-description", "", "French description HTML.")
	cmd.Flags().StringVar(&o.Compliance, "compliance", "", "Compliance criteria HTML.")
	cmd.Flags().StringVar(&o.FrCompliance, "fr-compliance", "", "French compliance criteria HTML.")
	cmd.Flags().BoolVar(&o.Informative, "informative", false, "Informative clauses follow their parent's selection.")
}

// Apply copies every flag set on the command line into r.
func (o *ClauseOptions) Apply(fs *pflag.FlagSet, r *clause.Record) {
	set := changed(fs)
	if set["number"] {
		r.Number = o.Number
	}
	if set["name"] {
		r.Name = o.Name
	}
	if set["fr-name"] {
		r.FrName = o.FrName
	}
	if set["description"] {
		r.Description = o.Description
	}
	if set["fr-description"] {
		r.FrDescription = o.FrDescription
	}
	if set["compliance"] {
		r.Compliance = o.Compliance
	}
	if set["fr-compliance"] {
		r.FrCompliance = o.FrCompliance
	}
	if set["informative"] {
		r.Informative = o.Informative
	}
}

func changed(fs *pflag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	return set
}
