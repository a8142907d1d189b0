// Package generate composes a requirements document from a selection.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/blob"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/render"
)

// Generate renders the document for Request.
type Generate struct {
	Service *app.Service
	Request app.SelectionRequest
	Format  render.Format
	Lang    clause.Lang
	Title   string
	// Path writes the document to a file or an s3://bucket/key object. A path
	// without an extension gets the format's one. Empty means Out.
	Path  string
	S3    blob.S3Config
	Width int
	Out   io.Writer
	// Terminal styles text documents written to Out for the terminal.
	// Files and objects always get plain text.
	Terminal bool
}

// Do runs the generation.
func (g *Generate) Do(ctx context.Context) error {
	log := logging.FromContext(ctx)

	title := g.Title
	if title == "" {
		title = render.DefaultTitle(g.Lang)
	}
	doc, err := g.Service.Compose(ctx, g.Request, g.Lang, title)
	if err != nil {
		return err
	}
	if len(doc.Clauses) == 0 {
		log.Warn("no clauses selected", zap.Any("request", g.Request))
	}

	r := render.Renderer{Width: g.Width}
	if g.Path == "" {
		if g.Terminal {
			r.Style = render.StyleAuto
		}
		w := g.Out
		if w == nil {
			w = color.Output
		}
		return r.Render(w, g.Format, doc)
	}

	target, err := blob.Parse(g.Path)
	if err != nil {
		return err
	}
	if path.Ext(target.String()) == "" {
		if target.IsS3() {
			target.Key += g.Format.Extension()
		} else {
			target.Path += g.Format.Extension()
		}
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, g.Format, doc); err != nil {
		return err
	}
	w := &blob.Writer{S3: g.S3}
	if err := w.Put(ctx, target, g.Format.ContentType(), buf.Bytes()); err != nil {
		return err
	}
	log.Debug("wrote document", zap.Stringer("target", target), zap.Int("clauses", len(doc.Clauses)))
	if g.Out != nil {
		_, _ = fmt.Fprintf(g.Out, "wrote %d clauses to %s\n", len(doc.Clauses), target)
	}
	return nil
}
