package meta

import (
	"fmt"
	"iter"
)

// Chapter is one source document with exactly one root section.
type Chapter struct {
	Name     string
	Filename string

	sections []*Section // arena; sections[0] is the main section
}

// NewChapter creates a chapter rooted at main. The main section must be a
// detached level-0 section.
func NewChapter(name, filename string, main *Section) (*Chapter, error) {
	if main.chapter != nil {
		return nil, fmt.Errorf("%w: main section of %q is already attached", ErrHierarchy, name)
	}
	if main.Level != 0 {
		return nil, fmt.Errorf("%w: main section of %q has level %d, want 0", ErrHierarchy, name, main.Level)
	}
	c := &Chapter{Name: name, Filename: filename}
	main.ref = 0
	main.parent = noParent
	main.chapter = c
	c.sections = []*Section{main}
	return c, nil
}

// Main returns the chapter's root section.
func (c *Chapter) Main() *Section {
	return c.sections[0]
}

// Len returns the number of sections in the chapter, root included.
func (c *Chapter) Len() int {
	return len(c.sections)
}

// Sections yields the root and then every subsection in pre-order.
func (c *Chapter) Sections() iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		c.walk(c.sections[0], yield)
	}
}

func (c *Chapter) walk(s *Section, yield func(*Section) bool) bool {
	if !yield(s) {
		return false
	}
	for _, idx := range s.children {
		if !c.walk(c.sections[idx], yield) {
			return false
		}
	}
	return true
}

func (c *Chapter) String() string {
	return fmt.Sprintf("<Chapter: %s>", c.Name)
}

// Meta is the complete index produced by one generation run.
type Meta struct {
	chapters []*Chapter
}

// New returns an empty index.
func New() *Meta {
	return &Meta{}
}

// AddChapter appends c to the index.
func (m *Meta) AddChapter(c *Chapter) {
	m.chapters = append(m.chapters, c)
}

// Chapters returns the chapters in index order.
func (m *Meta) Chapters() []*Chapter {
	return m.chapters
}

// Len returns the number of chapters.
func (m *Meta) Len() int {
	return len(m.chapters)
}

// Chapter looks a chapter up by name.
func (m *Meta) Chapter(name string) (*Chapter, bool) {
	for _, c := range m.chapters {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Sections yields every section of every chapter: chapters in order, each
// chapter root first and then its subsections in pre-order.
func (m *Meta) Sections() iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		for _, c := range m.chapters {
			if !c.walk(c.sections[0], yield) {
				return
			}
		}
	}
}

// Count returns the total number of sections in the index.
func (m *Meta) Count() int {
	n := 0
	for _, c := range m.chapters {
		n += c.Len()
	}
	return n
}

// GetByID returns the section with the given id.
func (m *Meta) GetByID(id string) (*Section, error) {
	for s := range m.Sections() {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("can't find section with id %q: %w", id, ErrSectionNotFound)
}
