// Package graph exports a metadata index into Neo4j as a chapter and section
// graph:
//
//	(:Chapter {name, filename})-[:ROOT]->(:Section {id, title, level, start, end, data})
//	(:Section)-[:CHILD {position}]->(:Section)
//
// Section data is stored as a JSON string. Export is idempotent: nodes and
// relationships are merged on chapter name and section id.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metrics"
)

// DefaultBatchSize is the number of rows sent per UNWIND query.
const DefaultBatchSize = 500

// Runner executes one write query.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) error
}

const (
	constraintQuery = `CREATE CONSTRAINT section_id IF NOT EXISTS FOR (s:Section) REQUIRE s.id IS UNIQUE`

	chapterQuery = `UNWIND $rows AS row
MERGE (c:Chapter {name: row.name})
SET c.filename = row.filename`

	sectionQuery = `UNWIND $rows AS row
MERGE (s:Section {id: row.id})
SET s.title = row.title, s.level = row.level, s.start = row.start,
    s.end = row.end, s.data = row.data, s.chapter = row.chapter`

	rootQuery = `UNWIND $rows AS row
MATCH (c:Chapter {name: row.name})
MATCH (s:Section {id: row.root})
MERGE (c)-[:ROOT]->(s)`

	childQuery = `UNWIND $rows AS row
MATCH (p:Section {id: row.parent})
MATCH (c:Section {id: row.child})
MERGE (p)-[r:CHILD]->(c)
SET r.position = row.position`
)

// Stats counts what an export wrote.
type Stats struct {
	Chapters int `json:"chapters"`
	Sections int `json:"sections"`
	Edges    int `json:"edges"`
}

// Exporter writes an index through a Runner.
type Exporter struct {
	runner    Runner
	batchSize int
	logger    *slog.Logger
}

// NewExporter creates an Exporter. A batchSize <= 0 selects DefaultBatchSize.
func NewExporter(r Runner, batchSize int, logger *slog.Logger) *Exporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Exporter{runner: r, batchSize: batchSize, logger: logger}
}

// Export upserts every chapter and section of m. Sections without an id
// cannot be addressed and fail the export.
func (e *Exporter) Export(ctx context.Context, m *meta.Meta) (Stats, error) {
	chapters := ChapterRows(m)
	sections, err := SectionRows(m)
	if err != nil {
		return Stats{}, err
	}
	edges := ChildRows(m)

	if err := e.runner.Run(ctx, constraintQuery, nil); err != nil {
		return Stats{}, fmt.Errorf("creating section constraint: %w", err)
	}
	steps := []struct {
		name  string
		query string
		rows  []any
	}{
		{"chapters", chapterQuery, chapters},
		{"sections", sectionQuery, sections},
		{"roots", rootQuery, chapters},
		{"children", childQuery, edges},
	}
	for _, step := range steps {
		if err := e.batches(ctx, step.query, step.rows); err != nil {
			return Stats{}, fmt.Errorf("exporting %s: %w", step.name, err)
		}
		e.logger.Debug("graph: exported", "step", step.name, "rows", len(step.rows))
	}

	metrics.Inc(metrics.GraphExports)
	return Stats{Chapters: len(chapters), Sections: len(sections), Edges: len(edges)}, nil
}

func (e *Exporter) batches(ctx context.Context, query string, rows []any) error {
	for start := 0; start < len(rows); start += e.batchSize {
		end := min(start+e.batchSize, len(rows))
		if err := e.runner.Run(ctx, query, map[string]any{"rows": rows[start:end]}); err != nil {
			return err
		}
	}
	return nil
}

// ChapterRows returns one row per chapter with its root section id.
func ChapterRows(m *meta.Meta) []any {
	rows := make([]any, 0, m.Len())
	for _, ch := range m.Chapters() {
		rows = append(rows, map[string]any{
			"name":     ch.Name,
			"filename": ch.Filename,
			"root":     ch.Main().ID,
		})
	}
	return rows
}

// SectionRows returns one row per section in index order.
func SectionRows(m *meta.Meta) ([]any, error) {
	rows := make([]any, 0, m.Count())
	for s := range m.Sections() {
		if s.ID == "" {
			return nil, fmt.Errorf("section %q in chapter %q has no id", s.Title, s.Chapter().Name)
		}
		data, err := json.Marshal(s.Data)
		if err != nil {
			return nil, fmt.Errorf("encoding data of section %q: %w", s.ID, err)
		}
		rows = append(rows, map[string]any{
			"id":      s.ID,
			"title":   s.Title,
			"level":   int64(s.Level),
			"start":   int64(s.Start),
			"end":     int64(s.End),
			"data":    string(data),
			"chapter": s.Chapter().Name,
		})
	}
	return rows, nil
}

// ChildRows returns one row per parent/child edge with the child's position.
func ChildRows(m *meta.Meta) []any {
	var rows []any
	for s := range m.Sections() {
		for i, child := range s.Children() {
			rows = append(rows, map[string]any{
				"parent":   s.ID,
				"child":    child.ID,
				"position": int64(i),
			})
		}
	}
	return rows
}
