package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/a11yreq/pkg/render"
)

// DocumentOptions control how a requirements document is rendered.
type DocumentOptions struct {
	Format string
	Title  string
	Out    string
	Width  int
}

func AddDocumentArgs(cmd *cobra.Command, o *DocumentOptions) {
	cmd.Flags().StringVarP(&o.Format, "format", "f", string(render.FormatMarkdown),
		"Document format: html, word, markdown or text.")
	cmd.Flags().StringVar(&o.Title, "title", "",
		"Document title. Defaults to a title in the chosen language.")
	cmd.Flags().StringVarP(&o.Out, "out", "o", "",
		"Write the document to a file or an s3://bucket/key object instead of stdout.")
	cmd.Flags().IntVar(&o.Width, "width", 0,
		"Wrap text documents at this width.")
}

// GetFormat parses --format.
func (o *DocumentOptions) GetFormat() (render.Format, error) {
	return render.ParseFormat(o.Format)
}
