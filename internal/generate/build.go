package generate

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metrics"
	"github.com/ajitpratap0/docmeta/internal/parser"
)

// DefaultWorkers bounds concurrent chapter parsing when Options.Workers is unset.
const DefaultWorkers = 4

// Source is the raw text of one chapter.
type Source struct {
	Name     string
	Filename string
	Text     string
}

// Options tunes index building.
type Options struct {
	Workers int
	Parser  parser.Options
}

// Skipped records a chapter left out of the index.
type Skipped struct {
	Chapter  string `json:"chapter" yaml:"chapter"`
	Filename string `json:"filename" yaml:"filename"`
	Reason   string `json:"reason" yaml:"reason"`
}

// Result is the outcome of BuildIndex.
type Result struct {
	Meta     *meta.Meta
	IDs      meta.Catalog
	Skipped  []Skipped
	Warnings []*parser.MetadataError
}

type parsed struct {
	chapter  *meta.Chapter
	warnings []*parser.MetadataError
	err      error
}

// BuildIndex parses sources concurrently and assembles them into one index in
// source order. A chapter whose tree cannot be assembled is skipped and
// reported; a duplicate explicit id fails the whole build.
func BuildIndex(ctx context.Context, sources []Source, opts Options, logger *slog.Logger) (*Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	out := make([]parsed, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ch, warnings, err := parser.ParseChapter(src.Name, src.Filename, src.Text, opts.Parser)
			out[i] = parsed{chapter: ch, warnings: warnings, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing chapters: %w", err)
	}

	res := &Result{Meta: meta.New()}
	for i, p := range out {
		for _, w := range p.warnings {
			logger.Warn("malformed metadata payload",
				"chapter", w.Chapter, "offset", w.Offset, "payload", w.Payload, "error", w.Err)
		}
		res.Warnings = append(res.Warnings, p.warnings...)
		metrics.Add(metrics.MetadataWarnings, len(p.warnings))

		if p.err != nil {
			logger.Warn("skipping chapter", "chapter", sources[i].Name, "error", p.err)
			res.Skipped = append(res.Skipped, Skipped{
				Chapter:  sources[i].Name,
				Filename: sources[i].Filename,
				Reason:   p.err.Error(),
			})
			metrics.Inc(metrics.ChaptersSkipped)
			continue
		}
		res.Meta.AddChapter(p.chapter)
		metrics.Inc(metrics.ChaptersParsed)
	}

	ids, err := meta.AssignIDs(res.Meta, meta.NewCatalog())
	if err != nil {
		return nil, fmt.Errorf("assigning ids: %w", err)
	}
	res.IDs = ids
	metrics.Add(metrics.SectionsIndexed, res.Meta.Count())

	logger.Debug("index built",
		"chapters", res.Meta.Len(), "sections", res.Meta.Count(), "skipped", len(res.Skipped))
	return res, nil
}
