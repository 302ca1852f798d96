// Package meta is the in-memory metadata index: chapters, their section
// trees and the operations that query them.
//
// Each Chapter owns its sections in an arena. Sections refer to their parent
// and children by arena index, so the children lists are the only owning
// edges and the parent link is a plain back-index.
package meta

import (
	"fmt"
	"iter"

	"github.com/ajitpratap0/docmeta/internal/grammar"
)

const noParent = -1

// Section is one node of a chapter's content tree.
type Section struct {
	ID    string
	Title string
	Level int
	Start int
	End   int
	Data  map[string]any

	ref      int
	parent   int
	children []int
	chapter  *Chapter
}

// NewSection returns a detached section. A nil data map is replaced by an
// empty one.
func NewSection(level, start, end int, title string, data map[string]any) *Section {
	if data == nil {
		data = map[string]any{}
	}
	return &Section{
		Title:  title,
		Level:  level,
		Start:  start,
		End:    end,
		Data:   data,
		ref:    noParent,
		parent: noParent,
	}
}

// AddChild appends child as the last child of s and attaches it to s's
// chapter. The child must be detached and strictly deeper than s.
func (s *Section) AddChild(child *Section) error {
	if s.chapter == nil {
		return fmt.Errorf("adding child %q to %q: %w", child.Title, s.Title, ErrChapterNotAttached)
	}
	if child.chapter != nil {
		return fmt.Errorf("%w: section %q is already attached", ErrHierarchy, child.Title)
	}
	if child.Level <= s.Level {
		return fmt.Errorf("%w: child level must be higher than parent's, %d <= %d",
			ErrHierarchy, child.Level, s.Level)
	}

	c := s.chapter
	child.ref = len(c.sections)
	child.parent = s.ref
	child.chapter = c
	c.sections = append(c.sections, child)
	s.children = append(s.children, child.ref)
	return nil
}

// Parent returns the enclosing section, or nil for a chapter root or a
// detached section.
func (s *Section) Parent() *Section {
	if s.chapter == nil || s.parent == noParent {
		return nil
	}
	return s.chapter.sections[s.parent]
}

// Children returns the direct subsections in document order.
func (s *Section) Children() []*Section {
	if s.chapter == nil {
		return nil
	}
	out := make([]*Section, len(s.children))
	for i, idx := range s.children {
		out[i] = s.chapter.sections[idx]
	}
	return out
}

// Chapter returns the owning chapter, or nil if s was never attached.
func (s *Section) Chapter() *Chapter {
	return s.chapter
}

// IsMain reports whether s is a chapter's root section.
func (s *Section) IsMain() bool {
	return s.Level == 0 && s.chapter != nil && s.parent == noParent
}

// Descendants yields every section below s in pre-order.
func (s *Section) Descendants() iter.Seq[*Section] {
	return func(yield func(*Section) bool) {
		if s.chapter == nil {
			return
		}
		for _, idx := range s.children {
			if !s.chapter.walk(s.chapter.sections[idx], yield) {
				return
			}
		}
	}
}

// Source returns the exact text the section spans in chapterText. With
// stripMeta, inline meta tags are removed from the result.
func (s *Section) Source(chapterText string, stripMeta bool) (string, error) {
	if s.chapter == nil {
		return "", fmt.Errorf("source of %q: %w", s.Title, ErrChapterNotAttached)
	}
	if s.Start < 0 || s.Start > s.End || s.End > len(chapterText) {
		return "", fmt.Errorf("source of %q: span [%d, %d) outside chapter %q of length %d",
			s.Title, s.Start, s.End, s.chapter.Name, len(chapterText))
	}
	src := chapterText[s.Start:s.End]
	if stripMeta {
		src = grammar.StripMetaTags(src)
	}
	return src, nil
}

func (s *Section) String() string {
	title := s.Title
	if runes := []rune(title); len(runes) > 23 {
		title = string(runes[:20]) + "..."
	}
	return fmt.Sprintf("<Section: [%d] %s>", s.Level, title)
}
