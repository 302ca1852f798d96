package metafile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/docmeta/internal/meta"
)

// wrapped is the layout of files that carry a version next to the chapters.
type wrapped struct {
	Version  any             `yaml:"version"`
	Chapters []ChapterRecord `yaml:"chapters"`
}

// Encode writes m as YAML chapter records.
func Encode(w io.Writer, m *meta.Meta) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Records(m)); err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	return enc.Close()
}

// EncodeJSON writes m as indented JSON chapter records.
func EncodeJSON(w io.Writer, m *meta.Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(m)); err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	return nil
}

// Decode reads YAML chapter records and rebuilds the index. Both a bare
// record list and a mapping with a chapters key are accepted.
func Decode(r io.Reader) (*meta.Meta, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return meta.New(), nil
		}
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var records []ChapterRecord
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&records); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	case yaml.MappingNode:
		var w wrapped
		if err := root.Decode(&w); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
		records = w.Chapters
	case yaml.ScalarNode:
		if root.Tag != "!!null" {
			return nil, fmt.Errorf("decoding metadata: %w: top level is a scalar", ErrInvalidRecord)
		}
	}
	return Index(records)
}

// Save writes m to path atomically: readers see either the old file or the
// complete new one.
func Save(path string, m *meta.Meta) error {
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Load reads the index saved at path.
func Load(path string) (*meta.Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}
