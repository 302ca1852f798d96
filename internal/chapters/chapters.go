// Package chapters flattens a project's chapter declaration into the ordered
// list of chapter files to index.
//
// A declaration may be a plain sequence of file names or any nesting of
// sequences and titled mappings:
//
//	chapters:
//	  - index.md
//	  - Guides:
//	      - guides/install.md
//	      - Advanced:
//	          - guides/tuning.md
//	  - glossary.md
//
// Flattening is depth-first, keeps mapping entries in their written order and
// never touches the filesystem.
package chapters

import (
	"fmt"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// List is a flattened chapter declaration.
type List struct {
	flat []string
}

// NewList wraps an already flat list of chapter files.
func NewList(files ...string) List {
	return List{flat: slices.Clone(files)}
}

// UnmarshalYAML flattens the declaration node.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	flat, err := Flatten(node)
	if err != nil {
		return err
	}
	l.flat = flat
	return nil
}

// Flat returns the chapter files in declaration order.
func (l List) Flat() []string {
	return slices.Clone(l.flat)
}

// Len returns the number of chapter files.
func (l List) Len() int {
	return len(l.flat)
}

// Contains reports whether file is declared.
func (l List) Contains(file string) bool {
	return slices.Contains(l.flat, file)
}

// Paths resolves every chapter file under root.
func (l List) Paths(root string) []string {
	out := make([]string, len(l.flat))
	for i, f := range l.flat {
		out[i] = filepath.Join(root, f)
	}
	return out
}

// Flatten returns the scalar leaves of node depth-first. Mapping keys are
// section titles and are skipped; null entries are ignored.
func Flatten(node *yaml.Node) ([]string, error) {
	var out []string
	if err := flatten(node, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(node *yaml.Node, out *[]string) error {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if err := flatten(child, out); err != nil {
				return err
			}
		}
	case yaml.MappingNode:
		for i := 1; i < len(node.Content); i += 2 {
			if err := flatten(node.Content[i], out); err != nil {
				return err
			}
		}
	case yaml.AliasNode:
		return flatten(node.Alias, out)
	case yaml.ScalarNode:
		if node.Tag == "!!null" || node.Value == "" {
			return nil
		}
		*out = append(*out, node.Value)
	default:
		return fmt.Errorf("line %d: unexpected chapter entry kind %d", node.Line, node.Kind)
	}
	return nil
}
