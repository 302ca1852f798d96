// Package seed prepares chapter text for rendering. Section meta tags are
// removed, front matter is kept, and every metadata key that has a seed
// template gets that template planted right after its metadata, with
// {value} replaced by the key's value.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/docmeta/internal/grammar"
	"github.com/ajitpratap0/docmeta/internal/parser"
)

// Placeholder is replaced by the metadata value in a seed template.
const Placeholder = "{value}"

var errNotMapping = errors.New("front matter is not a mapping")

// Plant returns text with meta tags removed and seeds planted. Seeds are
// emitted in the order the keys appear in the metadata, each preceded by a
// blank line. Front matter that is not a valid mapping is kept as is, plants
// nothing and is returned as a warning.
func Plant(text string, seeds map[string]string) (string, []*parser.MetadataError) {
	var (
		b        strings.Builder
		warnings []*parser.MetadataError
	)
	rest := text
	if fm, ok := grammar.FindFrontMatter(text); ok {
		b.WriteString(text[:fm.End])
		pairs, err := frontMatterPairs(fm.Payload)
		if err != nil {
			warnings = append(warnings, &parser.MetadataError{
				Payload: parser.PayloadFrontMatter,
				Offset:  fm.Start,
				Err:     err,
			})
		}
		writeSeeds(&b, seeds, pairs)
		rest = text[fm.End:]
	}

	prev := 0
	for _, tag := range grammar.FindMetaTags(rest) {
		b.WriteString(rest[prev:tag.Start])
		var pairs []grammar.Option
		if !tag.Bare() {
			pairs = grammar.ParseOptions(tag.Options)
		}
		writeSeeds(&b, seeds, pairs)
		prev = tag.End
	}
	b.WriteString(rest[prev:])
	return b.String(), warnings
}

func writeSeeds(b *strings.Builder, seeds map[string]string, pairs []grammar.Option) {
	if len(seeds) == 0 {
		return
	}
	for _, p := range pairs {
		tmpl, ok := seeds[p.Key]
		if !ok {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(strings.ReplaceAll(tmpl, Placeholder, p.Value))
	}
}

// frontMatterPairs returns the top-level keys of a front matter payload in
// document order. Scalar values keep their source text; collections are
// rendered as flow YAML.
func frontMatterPairs(payload string) ([]grammar.Option, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errNotMapping
	}
	pairs := make([]grammar.Option, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		pairs = append(pairs, grammar.Option{
			Key:   root.Content[i].Value,
			Value: nodeText(root.Content[i+1]),
		})
	}
	return pairs, nil
}

func nodeText(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	flow := *n
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return n.Value
	}
	return strings.TrimSpace(string(out))
}

// Seeder plants seeds into chapter files.
type Seeder struct {
	fs     afero.Fs
	seeds  map[string]string
	logger *slog.Logger
}

// NewSeeder creates a Seeder reading and writing through fs.
func NewSeeder(fs afero.Fs, seeds map[string]string, logger *slog.Logger) *Seeder {
	return &Seeder{fs: fs, seeds: seeds, logger: logger}
}

// Files seeds every file (relative to srcDir) and writes the result under
// dstDir with the same relative path. dstDir may equal srcDir. Unreadable
// files are logged and skipped. It returns the number of files written.
func (s *Seeder) Files(ctx context.Context, srcDir, dstDir string, files []string) (int, error) {
	written := 0
	for _, f := range files {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		src := filepath.Join(srcDir, f)
		data, err := afero.ReadFile(s.fs, src)
		if err != nil {
			s.logger.Warn("seed: skipping unreadable file", "file", src, "error", err)
			continue
		}

		out, warnings := Plant(string(data), s.seeds)
		for _, w := range warnings {
			w.Chapter = f
			s.logger.Warn("seed: malformed metadata", "chapter", f, "offset", w.Offset, "error", w.Err)
		}

		dst := filepath.Join(dstDir, f)
		if err := s.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return written, fmt.Errorf("seed: creating %s: %w", filepath.Dir(dst), err)
		}
		if err := afero.WriteFile(s.fs, dst, []byte(out), 0o644); err != nil {
			return written, fmt.Errorf("seed: writing %s: %w", dst, err)
		}
		written++
	}
	return written, nil
}
