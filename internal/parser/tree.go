package parser

import (
	"fmt"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

// Entry is the outcome of one heading chunk: its level and the section it
// produced, or a nil Section when the chunk carried no metadata.
type Entry struct {
	Level   int
	Section *meta.Section
}

// Build creates a chapter rooted at main and attaches the entries' sections
// in order.
//
// Every entry first ascends from the current section until it reaches a
// strictly shallower one. An entry with a section then becomes that
// section's last child and the new current section; an entry without one
// only closes the deeper sections, so its own descendants land on the
// nearest ancestor that does have a section. Skipped heading levels attach
// to the nearest existing ancestor.
func Build(name, filename string, main *meta.Section, entries []Entry) (*meta.Chapter, error) {
	ch, err := meta.NewChapter(name, filename, main)
	if err != nil {
		return nil, err
	}

	current := main
	for _, e := range entries {
		for current != nil && e.Level <= current.Level {
			current = current.Parent()
		}
		if current == nil {
			return nil, fmt.Errorf("building chapter %q: %w: no ancestor below level %d",
				name, meta.ErrHierarchy, e.Level)
		}
		if e.Section == nil {
			continue
		}
		if err := current.AddChild(e.Section); err != nil {
			return nil, fmt.Errorf("building chapter %q: %w", name, err)
		}
		current = e.Section
	}
	return ch, nil
}
