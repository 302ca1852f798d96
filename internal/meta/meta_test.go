package meta

import (
	"slices"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestChapter builds a chapter with the given root and attaches children
// as direct descendants of the root.
func newTestChapter(t *testing.T, name string, root *Section, children ...*Section) *Chapter {
	t.Helper()
	c, err := NewChapter(name, name+".md", root)
	require.NoError(t, err)
	for _, ch := range children {
		require.NoError(t, root.AddChild(ch))
	}
	return c
}

func titles(seq func(func(*Section) bool)) []string {
	var out []string
	for s := range seq {
		out = append(out, s.Title)
	}
	return out
}

func TestAddChild_SetsParentAndChapter(t *testing.T) {
	root := NewSection(0, 0, 100, "root", nil)
	child := NewSection(1, 10, 50, "child", nil)
	c := newTestChapter(t, "ch", root, child)

	assert.Same(t, root, child.Parent())
	assert.Same(t, c, child.Chapter())
	assert.Nil(t, root.Parent())
	assert.True(t, root.IsMain())
	assert.False(t, child.IsMain())
	assert.Equal(t, []*Section{child}, root.Children())
	assert.Equal(t, 2, c.Len())
}

func TestAddChild_RejectsEqualOrLowerLevel(t *testing.T) {
	root := NewSection(0, 0, 100, "root", nil)
	h2 := NewSection(2, 0, 10, "h2", nil)
	newTestChapter(t, "ch", root, h2)

	err := h2.AddChild(NewSection(2, 5, 10, "same", nil))
	require.ErrorIs(t, err, ErrHierarchy)

	err = h2.AddChild(NewSection(1, 5, 10, "shallower", nil))
	require.ErrorIs(t, err, ErrHierarchy)
	assert.Empty(t, h2.Children())
}

func TestAddChild_RejectsAttachedChild(t *testing.T) {
	root := NewSection(0, 0, 100, "root", nil)
	child := NewSection(1, 10, 50, "child", nil)
	newTestChapter(t, "ch", root, child)

	other := NewSection(0, 0, 10, "other", nil)
	newTestChapter(t, "other", other)
	require.ErrorIs(t, other.AddChild(child), ErrHierarchy)
}

func TestAddChild_DetachedParent(t *testing.T) {
	parent := NewSection(1, 0, 10, "loose", nil)
	err := parent.AddChild(NewSection(2, 0, 5, "child", nil))
	require.ErrorIs(t, err, ErrChapterNotAttached)
}

func TestNewChapter_RequiresLevelZeroRoot(t *testing.T) {
	_, err := NewChapter("x", "x.md", NewSection(1, 0, 0, "", nil))
	require.ErrorIs(t, err, ErrHierarchy)
}

func TestSections_PreOrderAcrossChapters(t *testing.T) {
	r1 := NewSection(0, 0, 100, "r1", nil)
	a := NewSection(1, 10, 60, "a", nil)
	b := NewSection(1, 60, 100, "b", nil)
	c1 := newTestChapter(t, "one", r1, a, b)
	require.NoError(t, a.AddChild(NewSection(2, 20, 40, "a1", nil)))
	require.NoError(t, a.AddChild(NewSection(3, 40, 60, "a2", nil)))

	r2 := NewSection(0, 0, 10, "r2", nil)
	c2 := newTestChapter(t, "two", r2, NewSection(1, 5, 10, "c", nil))

	m := New()
	m.AddChapter(c1)
	m.AddChapter(c2)

	assert.Equal(t, []string{"r1", "a", "a1", "a2", "b", "r2", "c"}, titles(m.Sections()))
	assert.Equal(t, []string{"a1", "a2"}, titles(a.Descendants()))
	assert.Equal(t, 7, m.Count())
	assert.Equal(t, 2, m.Len())

	got, ok := m.Chapter("two")
	require.True(t, ok)
	assert.Same(t, c2, got)
	_, ok = m.Chapter("three")
	assert.False(t, ok)
}

func TestSections_EarlyStop(t *testing.T) {
	root := NewSection(0, 0, 10, "root", nil)
	c := newTestChapter(t, "ch", root, NewSection(1, 0, 5, "a", nil), NewSection(1, 5, 10, "b", nil))

	var seen []string
	for s := range c.Sections() {
		seen = append(seen, s.Title)
		if s.Title == "a" {
			break
		}
	}
	assert.Equal(t, []string{"root", "a"}, seen)
}

func TestGetByID(t *testing.T) {
	root := NewSection(0, 0, 10, "root", nil)
	child := NewSection(1, 0, 5, "child", nil)
	m := New()
	m.AddChapter(newTestChapter(t, "ch", root, child))
	root.ID, child.ID = "root", "child"

	got, err := m.GetByID("child")
	require.NoError(t, err)
	assert.Same(t, child, got)

	_, err = m.GetByID("missing")
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestSource(t *testing.T) {
	text := "# Head\n\n<meta id=\"h\"></meta>\n\nBody\n"
	root := NewSection(0, 0, len(text), "", nil)
	head := NewSection(1, 0, len(text), "Head", nil)
	newTestChapter(t, "ch", root, head)

	src, err := head.Source(text, false)
	require.NoError(t, err)
	assert.Equal(t, text, src)

	src, err = head.Source(text, true)
	require.NoError(t, err)
	assert.Equal(t, "# Head\n\n\n\nBody\n", src)

	_, err = head.Source("short", false)
	require.Error(t, err)
}

func TestSource_NotAttached(t *testing.T) {
	_, err := NewSection(1, 0, 1, "loose", nil).Source("x", true)
	require.ErrorIs(t, err, ErrChapterNotAttached)
}

func TestString(t *testing.T) {
	s := NewSection(2, 0, 0, "A rather long section title", nil)
	assert.Equal(t, "<Section: [2] A rather long sectio...>", s.String())
	assert.True(t, slices.Equal([]*Section(nil), s.Children()))
}

func TestString_MultibyteTitle(t *testing.T) {
	long := NewSection(1, 0, 0, "Установка и настройка системы", nil)
	assert.Equal(t, "<Section: [1] Установка и настройк...>", long.String())
	assert.True(t, utf8.ValidString(long.String()))

	short := NewSection(1, 0, 0, "Установка системы", nil)
	assert.Equal(t, "<Section: [1] Установка системы>", short.String())
}
