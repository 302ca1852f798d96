// Package query answers read-only questions about a loaded metadata index.
// It backs both the HTTP API and the MCP tool server.
package query

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/ajitpratap0/docmeta/internal/meta"
	"github.com/ajitpratap0/docmeta/internal/metrics"
)

// DefaultFindLimit caps Find results when no limit is given.
const DefaultFindLimit = 50

// SourceReader resolves a section back to the markdown it spans.
type SourceReader interface {
	SectionSource(s *meta.Section, keepMeta bool) (string, error)
}

// SectionView is the serialized form of a section without its subtree.
type SectionView struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Level    int            `json:"level"`
	Chapter  string         `json:"chapter"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
	Data     map[string]any `json:"data"`
	Parent   string         `json:"parent,omitempty"`
	Children []string       `json:"children"`
}

// ChapterView summarizes a chapter.
type ChapterView struct {
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Root     string `json:"root"`
	Title    string `json:"title"`
	Sections int    `json:"sections"`
}

// Stats describes the shape of the index.
type Stats struct {
	Chapters int            `json:"chapters"`
	Sections int            `json:"sections"`
	MaxLevel int            `json:"max_level"`
	ByLevel  map[int]int    `json:"by_level"`
	DataKeys map[string]int `json:"data_keys"`
}

// FindOptions filters Find. Empty fields match everything.
type FindOptions struct {
	// Title matches sections whose title contains it, ignoring case.
	Title string
	// Key matches sections whose data has this key.
	Key string
	// Chapter restricts the search to one chapter.
	Chapter string
	Limit   int
}

// Service answers queries over one index.
type Service struct {
	meta   *meta.Meta
	source SourceReader
	md     goldmark.Markdown
}

// NewService creates a Service. source may be nil when section text is not
// available; Source and HTML then fail.
func NewService(m *meta.Meta, source SourceReader) *Service {
	return &Service{
		meta:   m,
		source: source,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// ErrNoSource is returned by Source and HTML when no SourceReader is set.
var ErrNoSource = errors.New("section source is not available")

// Meta returns the underlying index.
func (q *Service) Meta() *meta.Meta {
	return q.meta
}

// Section looks a section up by id.
func (q *Service) Section(id string) (SectionView, error) {
	s, err := q.lookup(id)
	if err != nil {
		return SectionView{}, err
	}
	return View(s), nil
}

// Source returns the markdown a section spans, with meta tags stripped
// unless keepMeta is set.
func (q *Service) Source(id string, keepMeta bool) (string, error) {
	s, err := q.lookup(id)
	if err != nil {
		return "", err
	}
	if q.source == nil {
		return "", ErrNoSource
	}
	return q.source.SectionSource(s, keepMeta)
}

// HTML renders a section's markdown, meta tags stripped, as HTML.
func (q *Service) HTML(id string) (string, error) {
	src, err := q.Source(id, false)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := q.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering section %q: %w", id, err)
	}
	return buf.String(), nil
}

// Chapters lists the chapters in index order.
func (q *Service) Chapters() []ChapterView {
	out := make([]ChapterView, 0, q.meta.Len())
	for _, ch := range q.meta.Chapters() {
		out = append(out, ChapterView{
			Name:     ch.Name,
			Filename: ch.Filename,
			Root:     ch.Main().ID,
			Title:    ch.Main().Title,
			Sections: ch.Len(),
		})
	}
	return out
}

// Find returns sections matching opts in index order.
func (q *Service) Find(opts FindOptions) []SectionView {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	}
	title := strings.ToLower(opts.Title)

	out := []SectionView{}
	for s := range q.meta.Sections() {
		if opts.Chapter != "" && s.Chapter().Name != opts.Chapter {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(s.Title), title) {
			continue
		}
		if opts.Key != "" {
			if _, ok := s.Data[opts.Key]; !ok {
				continue
			}
		}
		out = append(out, View(s))
		if len(out) == limit {
			break
		}
	}
	return out
}

// Stats computes index statistics.
func (q *Service) Stats() Stats {
	st := Stats{
		Chapters: q.meta.Len(),
		ByLevel:  map[int]int{},
		DataKeys: map[string]int{},
	}
	for s := range q.meta.Sections() {
		st.Sections++
		st.ByLevel[s.Level]++
		st.MaxLevel = max(st.MaxLevel, s.Level)
		for k := range s.Data {
			st.DataKeys[k]++
		}
	}
	return st
}

func (q *Service) lookup(id string) (*meta.Section, error) {
	metrics.Inc(metrics.LookupTotal)
	s, err := q.meta.GetByID(id)
	if err != nil {
		metrics.Inc(metrics.LookupMisses)
		return nil, err
	}
	return s, nil
}

// View converts a section into its serialized form.
func View(s *meta.Section) SectionView {
	v := SectionView{
		ID:       s.ID,
		Title:    s.Title,
		Level:    s.Level,
		Start:    s.Start,
		End:      s.End,
		Data:     s.Data,
		Children: []string{},
	}
	if ch := s.Chapter(); ch != nil {
		v.Chapter = ch.Name
	}
	if p := s.Parent(); p != nil {
		v.Parent = p.ID
	}
	for _, c := range s.Children() {
		v.Children = append(v.Children, c.ID)
	}
	return v
}

// Levels returns the distinct section levels of st in ascending order.
func (st Stats) Levels() []int {
	levels := make([]int, 0, len(st.ByLevel))
	for l := range st.ByLevel {
		levels = append(levels, l)
	}
	slices.Sort(levels)
	return levels
}
