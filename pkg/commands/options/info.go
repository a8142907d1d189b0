package options

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tableflip.dev/a11yreq/pkg/clause"
)

// InfoOptions carry the editable fields of an info section.
type InfoOptions struct {
	Name        string
	Order       int
	ShowHeading bool
	Body        string
	BodyFile    string
}

func AddInfoArgs(cmd *cobra.Command, o *InfoOptions) {
	cmd.Flags().StringVar(&o.Name, "name", "", `Section name. Names starting with "Annex" follow the clauses.`)
	cmd.Flags().IntVar(&o.Order, "order", 0, "Position among the sections.")
	cmd.Flags().BoolVar(&o.ShowHeading, "show-heading", false, "Print the name as a heading.")
	cmd.Flags().StringVar(&o.Body, "body", "", "Body HTML.")
	cmd.Flags().StringVar(&o.BodyFile, "body-file", "", "Read the body HTML from a file.")
}

// Resolve reads --body-file into Body.
func (o *InfoOptions) Resolve(fs *pflag.FlagSet) error {
	if !changed(fs)["body-file"] {
		return nil
	}
	b, err := os.ReadFile(o.BodyFile)
	if err != nil {
		return err
	}
	o.Body = string(b)
	return nil
}

// Apply copies every flag set on the command line into s. Call Resolve first.
func (o *InfoOptions) Apply(fs *pflag.FlagSet, s *clause.InfoSection) {
	set := changed(fs)
	if set["name"] {
		s.Name = o.Name
	}
	if set["order"] {
		s.Order = o.Order
	}
	if set["show-heading"] {
		s.ShowHeading = o.ShowHeading
	}
	if set["body"] || set["body-file"] {
		s.BodyHTML = o.Body
	}
}
