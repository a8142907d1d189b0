// Package bundle imports and exports catalogue bundles.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/blob"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/store"
)

// ErrNoFiles is returned when no import pattern matched a file.
var ErrNoFiles = errors.New("no bundle files matched")

// Import merges every bundle file matched by Patterns into the store.
// Patterns support `**`.
type Import struct {
	Service  *app.Service
	Patterns []string
	Out      io.Writer
}

// Do runs the import. Files are imported in path order.
func (i *Import) Do(ctx context.Context) error {
	log := logging.FromContext(ctx)
	out := i.Out
	if out == nil {
		out = color.Output
	}

	files, err := expand(i.Patterns)
	if err != nil {
		return err
	}
	var total store.ImportReport
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		b, err := clause.UnmarshalBundle(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		report, err := i.Service.Import(ctx, b)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		log.Debug("imported bundle", zap.String("path", path), zap.Int("created", report.Created), zap.Int("replaced", report.Replaced))
		total.Created += report.Created
		total.Replaced += report.Replaced
	}
	_, _ = fmt.Fprintf(out, "imported %d files: %d created, %d replaced\n", len(files), total.Created, total.Replaced)
	return nil
}

func expand(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.Join(patterns, " "))
	}
	sort.Strings(files)
	return files, nil
}

// Export writes the whole catalogue as a bundle.
type Export struct {
	Service *app.Service
	// Format is json or yaml.
	Format string
	// Path writes to a file or an s3://bucket/key object instead of Out.
	Path string
	S3   blob.S3Config
	Out  io.Writer
}

// Do runs the export.
func (e *Export) Do(ctx context.Context) error {
	b, err := e.Service.Export(ctx)
	if err != nil {
		return err
	}
	var (
		data        []byte
		contentType string
	)
	switch strings.ToLower(e.Format) {
	case "", "json":
		data, err = clause.MarshalBundle(b)
		data = append(data, '\n')
		contentType = "application/json"
	case "yaml", "yml":
		data, err = clause.MarshalBundleYAML(b)
		contentType = "application/yaml"
	default:
		return fmt.Errorf("unknown bundle format %q", e.Format)
	}
	if err != nil {
		return err
	}
	if e.Path != "" {
		target, err := blob.Parse(e.Path)
		if err != nil {
			return err
		}
		w := &blob.Writer{S3: e.S3}
		return w.Put(ctx, target, contentType, data)
	}
	out := e.Out
	if out == nil {
		out = color.Output
	}
	_, err = out.Write(data)
	return err
}
