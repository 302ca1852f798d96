package generate

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

// FileSource reads the current text of indexed chapters so section spans can
// be resolved back to markdown.
type FileSource struct {
	fs afero.Fs
}

// NewFileSource creates a FileSource reading chapter files from fs.
func NewFileSource(fs afero.Fs) *FileSource {
	return &FileSource{fs: fs}
}

// ChapterText returns the text of the chapter's file.
func (f *FileSource) ChapterText(ch *meta.Chapter) (string, error) {
	data, err := afero.ReadFile(f.fs, ch.Filename)
	if err != nil {
		return "", fmt.Errorf("reading chapter %q: %w", ch.Name, err)
	}
	return string(data), nil
}

// SectionSource returns the markdown the section spans. Unless keepMeta is
// set, inline meta tags are stripped.
func (f *FileSource) SectionSource(s *meta.Section, keepMeta bool) (string, error) {
	ch := s.Chapter()
	if ch == nil {
		return "", fmt.Errorf("source of %q: %w", s.Title, meta.ErrChapterNotAttached)
	}
	text, err := f.ChapterText(ch)
	if err != nil {
		return "", err
	}
	return s.Source(text, !keepMeta)
}
