package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/ajitpratap0/docmeta/internal/chapters"
)

// FindMarkdownFiles returns the markdown files under dir, relative to dir,
// in lexical order.
func FindMarkdownFiles(fs afero.Fs, dir string) ([]string, error) {
	var files []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isMarkdown(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("finding markdown files in %s: %w", dir, err)
	}
	slices.Sort(files)
	return files, nil
}

// Orphans returns the markdown files in the source directory that list does
// not declare. Orphaned files are never indexed.
func (g *Generator) Orphans(list chapters.List) ([]string, error) {
	files, err := FindMarkdownFiles(g.fs, g.srcDir)
	if err != nil {
		return nil, err
	}
	declared := make(map[string]struct{}, list.Len())
	for _, d := range list.Flat() {
		declared[filepath.ToSlash(filepath.Clean(d))] = struct{}{}
	}
	var orphans []string
	for _, f := range files {
		if _, ok := declared[f]; !ok {
			orphans = append(orphans, f)
		}
	}
	return orphans, nil
}

func isMarkdown(path string) bool {
	return strings.HasSuffix(path, ".md") || strings.HasSuffix(path, ".markdown")
}
