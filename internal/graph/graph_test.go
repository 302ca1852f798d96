package graph

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/parser"
)

type call struct {
	query string
	rows  []any
}

type recordingRunner struct {
	calls  []call
	failOn string
}

func (r *recordingRunner) Run(_ context.Context, query string, params map[string]any) error {
	if r.failOn != "" && strings.Contains(query, r.failOn) {
		return errors.New("boom")
	}
	c := call{query: query}
	if rows, ok := params["rows"].([]any); ok {
		c.rows = rows
	}
	r.calls = append(r.calls, c)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testIndex(t *testing.T) *meta.Meta {
	t.Helper()
	text := "# A <meta weight=\"2\"></meta>\n## A1 <meta></meta>\n## A2 <meta></meta>\n# B <meta></meta>\n"
	ch, _, err := parser.ParseChapter("doc", "src/doc.md", text, parser.Options{})
	require.NoError(t, err)
	m := meta.New()
	m.AddChapter(ch)
	_, err = meta.AssignIDs(m, meta.NewCatalog())
	require.NoError(t, err)
	return m
}

func TestRows(t *testing.T) {
	m := testIndex(t)

	chapters := ChapterRows(m)
	require.Len(t, chapters, 1)
	assert.Equal(t, map[string]any{"name": "doc", "filename": "src/doc.md", "root": "doc"}, chapters[0])

	sections, err := SectionRows(m)
	require.NoError(t, err)
	require.Len(t, sections, 5)
	a := sections[1].(map[string]any)
	assert.Equal(t, "a", a["id"])
	assert.Equal(t, int64(1), a["level"])
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(a["data"].(string)), &data))
	assert.Equal(t, float64(2), data["weight"])

	edges := ChildRows(m)
	assert.Equal(t, []any{
		map[string]any{"parent": "doc", "child": "a", "position": int64(0)},
		map[string]any{"parent": "doc", "child": "b", "position": int64(1)},
		map[string]any{"parent": "a", "child": "a1", "position": int64(0)},
		map[string]any{"parent": "a", "child": "a2", "position": int64(1)},
	}, edges)
}

func TestSectionRows_MissingID(t *testing.T) {
	ch, _, err := parser.ParseChapter("doc", "doc.md", "text", parser.Options{})
	require.NoError(t, err)
	m := meta.New()
	m.AddChapter(ch)

	_, err = SectionRows(m)
	require.Error(t, err)
}

func TestExport_Batches(t *testing.T) {
	runner := &recordingRunner{}
	stats, err := NewExporter(runner, 2, testLogger()).Export(context.Background(), testIndex(t))
	require.NoError(t, err)
	assert.Equal(t, Stats{Chapters: 1, Sections: 5, Edges: 4}, stats)

	// constraint, 1 chapter batch, 3 section batches, 1 root batch, 2 edge batches
	require.Len(t, runner.calls, 8)
	assert.Contains(t, runner.calls[0].query, "CREATE CONSTRAINT")
	assert.Len(t, runner.calls[2].rows, 2)
	assert.Len(t, runner.calls[4].rows, 1)
	assert.Contains(t, runner.calls[5].query, "[:ROOT]")
	assert.Contains(t, runner.calls[7].query, "[r:CHILD]")
}

func TestExport_RunnerError(t *testing.T) {
	runner := &recordingRunner{failOn: "MERGE (s:Section"}
	_, err := NewExporter(runner, 0, testLogger()).Export(context.Background(), testIndex(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporting sections")
}
