package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

func sections(levels ...int) []*meta.Section {
	out := make([]*meta.Section, len(levels))
	for i, l := range levels {
		out[i] = meta.NewSection(l, i, i+1, string(rune('A'+i)), nil)
	}
	return out
}

func entries(s ...*meta.Section) []Entry {
	out := make([]Entry, len(s))
	for i, sec := range s {
		out[i] = Entry{Level: sec.Level, Section: sec}
	}
	return out
}

func TestBuild_LevelSkipAttachesToNearestAncestor(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	s := sections(1, 4, 2)

	ch, err := Build("ch", "ch.md", main, entries(s...))
	require.NoError(t, err)
	assert.Same(t, main, ch.Main())

	assert.Equal(t, []*meta.Section{s[0]}, main.Children())
	assert.Same(t, s[0], s[1].Parent())
	assert.Same(t, s[0], s[2].Parent(), "H2 ascends past the H4 to the H1")
}

func TestBuild_ShallowerHeadingReturnsToRoot(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	s := sections(1, 4, 1)

	_, err := Build("ch", "ch.md", main, entries(s...))
	require.NoError(t, err)
	assert.Equal(t, []*meta.Section{s[0], s[2]}, main.Children())
	assert.Same(t, s[0], s[1].Parent())
}

func TestBuild_DeepChain(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	s := sections(1, 2, 3, 3, 2, 1)

	_, err := Build("ch", "ch.md", main, entries(s...))
	require.NoError(t, err)
	assert.Same(t, main, s[0].Parent())
	assert.Same(t, s[0], s[1].Parent())
	assert.Same(t, s[1], s[2].Parent())
	assert.Same(t, s[1], s[3].Parent())
	assert.Same(t, s[0], s[4].Parent())
	assert.Same(t, main, s[5].Parent())
}

func TestBuild_RejectsLevelZeroHeading(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	_, err := Build("ch", "ch.md", main, entries(sections(1, 0)...))
	require.ErrorIs(t, err, meta.ErrHierarchy)
}

func TestBuild_NoSections(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	ch, err := Build("ch", "ch.md", main, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ch.Len())
}

func TestBuild_SkippedEntryClosesDeeperSections(t *testing.T) {
	main := meta.NewSection(0, 0, 10, "", nil)
	good := meta.NewSection(1, 0, 3, "good", nil)
	child := meta.NewSection(2, 5, 10, "child", nil)

	_, err := Build("ch", "ch.md", main, []Entry{
		{Level: 1, Section: good},
		{Level: 1},
		{Level: 2, Section: child},
	})
	require.NoError(t, err)
	assert.Equal(t, []*meta.Section{good, child}, main.Children())
	assert.Empty(t, good.Children())
}
