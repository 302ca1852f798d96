// Package parser turns one chapter's markdown text into a section tree:
// it splits the text by headings, extracts front matter and meta tag
// metadata from each chunk and assembles the surviving sections by level.
package parser

import (
	"github.com/ajitpratap0/docmeta/internal/meta"
)

// titleKey is the data key that overrides a section's computed title.
const titleKey = "title"

// Options tunes chapter parsing.
type Options struct {
	// SkipCodeFences keeps heading-like lines in fenced code blocks from
	// starting sections.
	SkipCodeFences bool
}

// ParseChapter builds the section tree of one chapter. Malformed metadata
// payloads are returned as warnings; the error is non-nil only when the
// tree cannot be assembled.
func ParseChapter(name, filename, text string, opts Options) (*meta.Chapter, []*MetadataError, error) {
	header, chunks := Split(text, opts)

	data, _, warnings := Extract(header)
	main := newSection(header, data)

	entries := make([]Entry, len(chunks))
	for i, c := range chunks {
		data, ok, w := Extract(c)
		warnings = append(warnings, w...)
		entries[i].Level = c.Level
		if ok {
			entries[i].Section = newSection(c, data)
		}
	}

	for _, w := range warnings {
		w.Chapter = name
	}

	ch, err := Build(name, filename, main, entries)
	if err != nil {
		return nil, warnings, err
	}
	return ch, warnings, nil
}

func newSection(c Chunk, data map[string]any) *meta.Section {
	title := c.Title
	if t, ok := data[titleKey].(string); ok && t != "" {
		title = t
	}
	return meta.NewSection(c.Level, c.Start, c.End, title, data)
}
