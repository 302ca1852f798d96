package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoHeadings(t *testing.T) {
	text := "---\ntitle: x\n---\nJust a preamble.\n"

	header, chunks := Split(text, Options{})
	assert.Empty(t, chunks)
	assert.Equal(t, Chunk{Level: 0, Content: text, Start: 0, End: len(text)}, header)
}

func TestSplit_HeaderContentIsPreamble(t *testing.T) {
	text := "Preamble\n# One\nbody\n"

	header, chunks := Split(text, Options{})
	require.Len(t, chunks, 1)
	assert.Equal(t, "Preamble\n", header.Content)
	assert.Equal(t, len(text), header.End)
	assert.Equal(t, "# One\nbody\n", chunks[0].Content)
	assert.Equal(t, "One", chunks[0].Title)
	assert.Equal(t, 1, chunks[0].Level)
}

func TestSplit_SpansCoverDescendants(t *testing.T) {
	text := "# A\ntext\n## A1\n### A1a\n## A2\n# B\n## B1\n"
	at := func(s string) int { return strings.Index(text, s) }

	_, chunks := Split(text, Options{})
	require.Len(t, chunks, 6)

	spans := make(map[string][2]int, len(chunks))
	for _, c := range chunks {
		spans[c.Title] = [2]int{c.Start, c.End}
	}
	assert.Equal(t, [2]int{0, at("# B")}, spans["A"])
	assert.Equal(t, [2]int{at("## A1"), at("## A2")}, spans["A1"])
	assert.Equal(t, [2]int{at("### A1a"), at("## A2")}, spans["A1a"])
	assert.Equal(t, [2]int{at("## A2"), at("# B")}, spans["A2"])
	assert.Equal(t, [2]int{at("# B"), len(text)}, spans["B"])
	assert.Equal(t, [2]int{at("## B1"), len(text)}, spans["B1"])
}

func TestSplit_LevelSkip(t *testing.T) {
	text := "# A\n#### B\n## C\n"
	at := func(s string) int { return strings.Index(text, s) }

	_, chunks := Split(text, Options{})
	require.Len(t, chunks, 3)
	assert.Equal(t, len(text), chunks[0].End)
	assert.Equal(t, at("## C"), chunks[1].End)
	assert.Equal(t, len(text), chunks[2].End)
}

func TestSplit_SiblingsCloseImmediately(t *testing.T) {
	text := "## A\n## B\n# C\n"
	at := func(s string) int { return strings.Index(text, s) }

	_, chunks := Split(text, Options{})
	require.Len(t, chunks, 3)
	assert.Equal(t, at("## B"), chunks[0].End)
	assert.Equal(t, at("# C"), chunks[1].End)
}

func TestSplit_CodeFences(t *testing.T) {
	text := "# Real\n```sh\n# not a heading\n```\n"

	_, chunks := Split(text, Options{SkipCodeFences: true})
	require.Len(t, chunks, 1)
	assert.Equal(t, len(text), chunks[0].End)

	_, chunks = Split(text, Options{})
	assert.Len(t, chunks, 2)
}

func TestChunk_String(t *testing.T) {
	c := Chunk{Title: "A very long heading title", Level: 2}
	assert.Equal(t, "<Chunk: [2] A very long hea>", c.String())

	c = Chunk{Title: "Überschrift für Kapitel", Level: 1}
	assert.Equal(t, "<Chunk: [1] Überschrift für>", c.String())
}
