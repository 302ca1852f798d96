package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/parser"
)

const guideText = "---\ntitle: Guide\n---\n" +
	"# Install <meta id=\"install\" tier=\"core\"></meta>\n" +
	"Run **make**.\n" +
	"## Linux <meta></meta>\n" +
	"apt install\n" +
	"# Uninstall <meta></meta>\n" +
	"rm it\n"

type textSource map[string]string

func (t textSource) SectionSource(s *meta.Section, keepMeta bool) (string, error) {
	return s.Source(t[s.Chapter().Name], !keepMeta)
}

func testService(t *testing.T) *Service {
	t.Helper()
	texts := textSource{"guide": guideText, "faq": "plain text"}
	m := meta.New()
	for _, name := range []string{"guide", "faq"} {
		ch, _, err := parser.ParseChapter(name, "src/"+name+".md", texts[name], parser.Options{})
		require.NoError(t, err)
		m.AddChapter(ch)
	}
	_, err := meta.AssignIDs(m, meta.NewCatalog())
	require.NoError(t, err)
	return NewService(m, texts)
}

func TestSection(t *testing.T) {
	q := testService(t)

	v, err := q.Section("install")
	require.NoError(t, err)
	assert.Equal(t, "Install", v.Title)
	assert.Equal(t, "guide", v.Chapter)
	assert.Equal(t, "guide", v.Parent)
	assert.Equal(t, []string{"linux"}, v.Children)
	assert.Equal(t, "core", v.Data["tier"])

	root, err := q.Section("guide")
	require.NoError(t, err)
	assert.Empty(t, root.Parent)
	assert.Equal(t, []string{"install", "uninstall"}, root.Children)

	_, err = q.Section("nope")
	require.ErrorIs(t, err, meta.ErrSectionNotFound)
}

func TestSource(t *testing.T) {
	q := testService(t)

	src, err := q.Source("install", false)
	require.NoError(t, err)
	assert.Equal(t, "# Install \nRun **make**.\n## Linux \napt install\n", src)

	raw, err := q.Source("install", true)
	require.NoError(t, err)
	assert.Contains(t, raw, `<meta id="install" tier="core"></meta>`)

	_, err = NewService(q.Meta(), nil).Source("install", false)
	require.ErrorIs(t, err, ErrNoSource)
}

func TestHTML(t *testing.T) {
	html, err := testService(t).HTML("install")
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>make</strong>")
	assert.Contains(t, html, "<h2")
	assert.NotContains(t, html, "meta")
}

func TestChapters(t *testing.T) {
	chapters := testService(t).Chapters()
	require.Len(t, chapters, 2)
	assert.Equal(t, ChapterView{Name: "guide", Filename: "src/guide.md", Root: "guide", Title: "Guide", Sections: 4}, chapters[0])
	assert.Equal(t, ChapterView{Name: "faq", Filename: "src/faq.md", Root: "faq", Title: "faq", Sections: 1}, chapters[1])
}

func TestFind(t *testing.T) {
	q := testService(t)

	ids := func(views []SectionView) []string {
		var out []string
		for _, v := range views {
			out = append(out, v.ID)
		}
		return out
	}

	assert.Equal(t, []string{"install", "uninstall"}, ids(q.Find(FindOptions{Title: "INSTALL"})))
	assert.Equal(t, []string{"install"}, ids(q.Find(FindOptions{Key: "tier"})))
	assert.Equal(t, []string{"faq"}, ids(q.Find(FindOptions{Chapter: "faq"})))
	assert.Equal(t, []string{"guide"}, ids(q.Find(FindOptions{Limit: 1})))
	assert.Empty(t, q.Find(FindOptions{Title: "missing"}))
}

func TestStats(t *testing.T) {
	st := testService(t).Stats()
	assert.Equal(t, 2, st.Chapters)
	assert.Equal(t, 5, st.Sections)
	assert.Equal(t, 2, st.MaxLevel)
	assert.Equal(t, map[int]int{0: 2, 1: 2, 2: 1}, st.ByLevel)
	assert.Equal(t, 1, st.DataKeys["tier"])
	assert.Equal(t, 1, st.DataKeys["title"])
	assert.Equal(t, []int{0, 1, 2}, st.Levels())
}
