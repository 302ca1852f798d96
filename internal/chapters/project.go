package chapters

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// chaptersKey is the project file key holding the chapter declaration.
const chaptersKey = "chapters"

// Project is the part of a project file the indexer reads.
type Project struct {
	Title    string
	Chapters List
}

// ReadProject reads a YAML project file. Only the title and chapters keys
// are interpreted, so custom tags elsewhere in the file are left alone.
func ReadProject(r io.Reader) (*Project, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("decoding project file: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("project file: top level must be a mapping, got kind %d", root.Kind)
	}

	p := &Project{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "title":
			p.Title = value.Value
		case chaptersKey:
			if err := p.Chapters.UnmarshalYAML(value); err != nil {
				return nil, fmt.Errorf("project file %s: %w", chaptersKey, err)
			}
		}
	}
	return p, nil
}
