// Package metafile persists a metadata index as an ordered list of chapter
// records, each holding its nested section tree.
package metafile

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

// ErrInvalidRecord is returned when a persisted record fails validation.
var ErrInvalidRecord = errors.New("invalid metadata record")

// ChapterRecord is the persisted form of a chapter.
type ChapterRecord struct {
	Name     string        `yaml:"name" json:"name" validate:"required"`
	Filename string        `yaml:"filename" json:"filename" validate:"required"`
	Section  SectionRecord `yaml:"section" json:"section"`
}

// SectionRecord is the persisted form of a section and its subtree.
type SectionRecord struct {
	ID       string          `yaml:"id" json:"id"`
	Title    string          `yaml:"title" json:"title"`
	Level    int             `yaml:"level" json:"level" validate:"gte=0"`
	Data     Data            `yaml:"data" json:"data"`
	Start    int             `yaml:"start" json:"start" validate:"gte=0"`
	End      int             `yaml:"end" json:"end" validate:"gtefield=Start"`
	Children []SectionRecord `yaml:"children" json:"children" validate:"dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Records converts an index into chapter records in chapter order.
func Records(m *meta.Meta) []ChapterRecord {
	out := make([]ChapterRecord, 0, m.Len())
	for _, ch := range m.Chapters() {
		out = append(out, ChapterRecord{
			Name:     ch.Name,
			Filename: ch.Filename,
			Section:  sectionRecord(ch.Main()),
		})
	}
	return out
}

func sectionRecord(s *meta.Section) SectionRecord {
	r := SectionRecord{
		ID:       s.ID,
		Title:    s.Title,
		Level:    s.Level,
		Data:     s.Data,
		Start:    s.Start,
		End:      s.End,
		Children: []SectionRecord{},
	}
	for _, child := range s.Children() {
		r.Children = append(r.Children, sectionRecord(child))
	}
	return r
}

// Index validates records and rebuilds the index they describe. Trees are
// reassembled with the same attach rule used during parsing.
func Index(records []ChapterRecord) (*meta.Meta, error) {
	m := meta.New()
	seen := make(map[string]string)
	for i := range records {
		rec := &records[i]
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("%w: chapter %d (%q): %v", ErrInvalidRecord, i, rec.Name, err)
		}

		main := newSection(&rec.Section)
		ch, err := meta.NewChapter(rec.Name, rec.Filename, main)
		if err != nil {
			return nil, fmt.Errorf("%w: chapter %q: %v", ErrInvalidRecord, rec.Name, err)
		}
		if err := attach(main, rec.Section.Children); err != nil {
			return nil, fmt.Errorf("chapter %q: %w", rec.Name, err)
		}

		for s := range ch.Sections() {
			if s.ID == "" {
				continue
			}
			if prev, dup := seen[s.ID]; dup {
				return nil, fmt.Errorf("%w: %q in chapters %q and %q", meta.ErrDuplicateID, s.ID, prev, ch.Name)
			}
			seen[s.ID] = ch.Name
		}
		m.AddChapter(ch)
	}
	return m, nil
}

func newSection(r *SectionRecord) *meta.Section {
	s := meta.NewSection(r.Level, r.Start, r.End, r.Title, r.Data)
	s.ID = r.ID
	return s
}

func attach(parent *meta.Section, children []SectionRecord) error {
	for i := range children {
		child := newSection(&children[i])
		if err := parent.AddChild(child); err != nil {
			return err
		}
		if err := attach(child, children[i].Children); err != nil {
			return err
		}
	}
	return nil
}
