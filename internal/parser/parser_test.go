package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

const guide = `---
title: Guide
id: guide
---
Intro.

# Install

<meta id="install"></meta>

Steps.

## Linux

No meta here.

### Debian

<meta></meta>

## macOS

<meta os='mac' tags='[a, b]'></meta>

# FAQ

nothing
`

// checkTree asserts the structural invariants every parsed chapter holds.
func checkTree(t *testing.T, ch *meta.Chapter, textLen int) {
	t.Helper()
	for s := range ch.Sections() {
		assert.True(t, 0 <= s.Start && s.Start <= s.End && s.End <= textLen, "span of %s", s)
		prevStart := -1
		for _, c := range s.Children() {
			assert.Greater(t, c.Level, s.Level, "level of %s under %s", c, s)
			assert.GreaterOrEqual(t, c.Start, s.Start, "start of %s", c)
			assert.LessOrEqual(t, c.End, s.End, "end of %s", c)
			assert.Greater(t, c.Start, prevStart, "order of %s", c)
			prevStart = c.Start
		}
	}
}

func TestParseChapter(t *testing.T) {
	ch, warnings, err := ParseChapter("guide", "src/guide.md", guide, Options{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	checkTree(t, ch, len(guide))

	assert.Equal(t, "guide", ch.Name)
	assert.Equal(t, "src/guide.md", ch.Filename)

	root := ch.Main()
	assert.Equal(t, "Guide", root.Title)
	assert.Equal(t, map[string]any{"title": "Guide", "id": "guide"}, root.Data)
	assert.Equal(t, 0, root.Start)
	assert.Equal(t, len(guide), root.End)

	require.Len(t, root.Children(), 1)
	install := root.Children()[0]
	assert.Equal(t, "Install", install.Title)
	assert.Equal(t, strings.Index(guide, "# Install"), install.Start)
	assert.Equal(t, strings.Index(guide, "# FAQ"), install.End)

	kids := install.Children()
	require.Len(t, kids, 2)
	assert.Equal(t, "Debian", kids[0].Title)
	assert.Equal(t, 3, kids[0].Level)
	assert.Equal(t, strings.Index(guide, "## macOS"), kids[0].End)
	assert.Equal(t, "macOS", kids[1].Title)
	assert.Equal(t, map[string]any{"os": "mac", "tags": []any{"a", "b"}}, kids[1].Data)
	assert.Equal(t, 4, ch.Len())
}

func TestParseChapter_NoHeadings(t *testing.T) {
	text := "Nothing but text.\n\nAnd more.\n"

	ch, warnings, err := ParseChapter("plain", "plain.md", text, Options{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, ch.Len())
	assert.Equal(t, 0, ch.Main().Start)
	assert.Equal(t, len(text), ch.Main().End)
	assert.Equal(t, "", ch.Main().Title)
}

func TestParseChapter_TitleOverride(t *testing.T) {
	text := "# Raw heading\n<meta title=\"Nicer title\"></meta>\n"

	ch, _, err := ParseChapter("c", "c.md", text, Options{})
	require.NoError(t, err)
	require.Len(t, ch.Main().Children(), 1)
	assert.Equal(t, "Nicer title", ch.Main().Children()[0].Title)
}

func TestParseChapter_MalformedMetadataIsWarning(t *testing.T) {
	text := "# Good\n<meta></meta>\n# Bad\n<meta id=\"x: [\"></meta>\n## Child\n<meta></meta>\n"

	ch, warnings, err := ParseChapter("c", "c.md", text, Options{})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "c", warnings[0].Chapter)
	assert.Equal(t, strings.Index(text, "<meta id="), warnings[0].Offset)
	checkTree(t, ch, len(text))

	// "Bad" is dropped and its child reattaches to the root.
	kids := ch.Main().Children()
	require.Len(t, kids, 2)
	assert.Equal(t, "Good", kids[0].Title)
	assert.Equal(t, "Child", kids[1].Title)
}

func TestParseChapter_HeadingTagInTitleLine(t *testing.T) {
	text := "# API <meta id=\"api\"></meta>\nbody\n"

	ch, _, err := ParseChapter("c", "c.md", text, Options{})
	require.NoError(t, err)
	require.Len(t, ch.Main().Children(), 1)
	s := ch.Main().Children()[0]
	assert.Equal(t, "API", s.Title)
	assert.Equal(t, "api", s.Data["id"])
}

func TestParseChapter_ThenAssignIDs(t *testing.T) {
	ch, _, err := ParseChapter("guide", "guide.md", guide, Options{})
	require.NoError(t, err)

	m := meta.New()
	m.AddChapter(ch)
	_, err = meta.AssignIDs(m, meta.NewCatalog())
	require.NoError(t, err)

	var got []string
	for s := range m.Sections() {
		got = append(got, s.ID)
	}
	assert.Equal(t, []string{"guide", "install", "debian", "macos"}, got)
}
