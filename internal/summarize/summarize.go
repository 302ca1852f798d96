// Package summarize adds one-sentence summaries to indexed sections. Each
// summary is stored under the summary key of the section's data, so it
// travels with the index wherever it is persisted or served.
package summarize

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ajitpratap0/docmeta/internal/grammar"
	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metrics"
	"github.com/ajitpratap0/docmeta/pkg/tokenizer"
)

// SummaryKey is the data key holding a section summary.
const SummaryKey = "summary"

// Summarizer produces a one-sentence summary of a section body.
type Summarizer interface {
	Summarize(ctx context.Context, title, body string) (string, error)
}

// ChapterReader returns the current text of a chapter.
type ChapterReader interface {
	ChapterText(ch *meta.Chapter) (string, error)
}

// Options tunes which sections are summarized.
type Options struct {
	// MinWords is the smallest own body worth summarizing.
	MinWords int
	// InputBudget caps the estimated tokens of body text sent per section.
	InputBudget int
}

// Annotator walks an index and stores summaries in section data.
type Annotator struct {
	summarizer Summarizer
	reader     ChapterReader
	opts       Options
	logger     *slog.Logger
}

// NewAnnotator creates an Annotator.
func NewAnnotator(s Summarizer, r ChapterReader, opts Options, logger *slog.Logger) *Annotator {
	return &Annotator{
		summarizer: s,
		reader:     r,
		opts:       opts,
		logger:     logger,
	}
}

// Annotate summarizes every section with enough own text and no existing
// summary. Failures for single sections or chapters are logged and skipped.
// It returns the number of summaries added.
func (a *Annotator) Annotate(ctx context.Context, m *meta.Meta) (int, error) {
	added := 0
	for _, ch := range m.Chapters() {
		text, err := a.reader.ChapterText(ch)
		if err != nil {
			a.logger.Warn("summarize: skipping chapter", "chapter", ch.Name, "error", err)
			continue
		}

		for s := range ch.Sections() {
			select {
			case <-ctx.Done():
				return added, ctx.Err()
			default:
			}

			if _, ok := s.Data[SummaryKey]; ok {
				continue
			}
			body, err := OwnBody(s, text)
			if err != nil {
				a.logger.Warn("summarize: skipping section", "chapter", ch.Name, "id", s.ID, "error", err)
				continue
			}
			if tokenizer.CountWords(body) < a.opts.MinWords {
				continue
			}

			body = tokenizer.TruncateToTokenBudget(body, a.opts.InputBudget)
			summary, err := a.summarizer.Summarize(ctx, s.Title, body)
			if err != nil {
				if ctx.Err() != nil {
					return added, ctx.Err()
				}
				a.logger.Warn("summarize: skipping section", "chapter", ch.Name, "id", s.ID, "error", err)
				continue
			}
			if summary == "" {
				continue
			}

			s.Data[SummaryKey] = summary
			metrics.Inc(metrics.SummaryTotal)
			added++
		}
	}
	return added, nil
}

// OwnBody returns the text of s that no child section covers, with meta
// tags stripped. For a chapter root the front matter is left out too.
func OwnBody(s *meta.Section, chapterText string) (string, error) {
	src, err := s.Source(chapterText, false)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	pos := s.Start
	if s.IsMain() {
		if fm, ok := grammar.FindFrontMatter(src); ok {
			pos += fm.End
		}
	}
	for _, child := range s.Children() {
		start := min(max(child.Start, pos), s.End)
		b.WriteString(chapterText[pos:start])
		pos = max(pos, min(child.End, s.End))
	}
	b.WriteString(chapterText[pos:s.End])
	return strings.TrimSpace(grammar.StripMetaTags(b.String())), nil
}
