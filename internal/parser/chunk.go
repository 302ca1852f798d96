package parser

import (
	"fmt"

	"github.com/ajitpratap0/docmeta/internal/grammar"
)

// Chunk is one heading (or the header before the first heading) before
// metadata extraction decides whether it becomes a section.
type Chunk struct {
	Title   string
	Level   int
	Content string
	Start   int
	End     int
}

func (c Chunk) String() string {
	title := c.Title
	if runes := []rune(title); len(runes) > 15 {
		title = string(runes[:15])
	}
	return fmt.Sprintf("<Chunk: [%d] %s>", c.Level, title)
}

// Split cuts text into the level-0 header chunk and one chunk per heading.
//
// The header always spans the whole text; its content is the preamble. A
// heading chunk's content runs to the next heading line, and its span is
// then widened to cover every deeper heading that follows it, stopping at
// the next heading of the same or a shallower level.
func Split(text string, opts Options) (header Chunk, chunks []Chunk) {
	headings := grammar.ScanHeadings(text, grammar.ScanOptions{SkipCodeFences: opts.SkipCodeFences})

	header = Chunk{
		Level:   0,
		Content: grammar.Preamble(text, headings),
		Start:   0,
		End:     len(text),
	}

	chunks = make([]Chunk, 0, len(headings))
	for i, h := range headings {
		end := len(text)
		if i+1 < len(headings) {
			end = headings[i+1].Start
		}
		chunks = append(chunks, Chunk{
			Title:   h.Title,
			Level:   h.Level,
			Content: text[h.Start:end],
			Start:   h.Start,
			End:     end,
		})
	}
	closeSpans(chunks)
	return header, chunks
}

// closeSpans sets each chunk's end to the end of the last deeper chunk that
// directly follows it. Ends of later chunks are still provisional when read.
func closeSpans(chunks []Chunk) {
	for i := 0; i < len(chunks)-1; i++ {
		j := i + 1
		for j < len(chunks) && chunks[j].Level > chunks[i].Level {
			j++
		}
		if j-1 > i {
			chunks[i].End = chunks[j-1].End
		}
	}
}
