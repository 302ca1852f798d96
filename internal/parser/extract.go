package parser

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/docmeta/internal/grammar"
)

// Payload kinds reported in MetadataError.
const (
	PayloadFrontMatter = "front matter"
	PayloadMetaTag     = "meta tag"
)

// MetadataError reports a front matter block or meta tag whose content is not
// valid structured data. It is a warning: the payload is treated as absent.
type MetadataError struct {
	Chapter string
	Payload string // PayloadFrontMatter or PayloadMetaTag
	Offset  int    // offset of the payload in the chapter text
	Err     error
}

func (e *MetadataError) Error() string {
	if e.Chapter == "" {
		return fmt.Sprintf("malformed %s at offset %d: %v", e.Payload, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: malformed %s at offset %d: %v", e.Chapter, e.Payload, e.Offset, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

var errNotMapping = errors.New("payload is not a mapping")

// Extract decides whether chunk yields a section and returns its metadata.
//
// The header chunk always yields a section; its data comes from the front
// matter. A meta tag in any chunk replaces that data entirely: a bare tag
// gives an empty mapping, otherwise the parsed options. A heading chunk with
// no meta tag yields nothing (ok is false). Malformed payloads are returned
// as warnings and otherwise ignored.
func Extract(c Chunk) (data map[string]any, ok bool, warnings []*MetadataError) {
	if c.Level == 0 {
		data, ok = map[string]any{}, true
		if fm, found := grammar.FindFrontMatter(c.Content); found {
			parsed, err := decodeMapping(fm.Payload)
			if err != nil {
				warnings = append(warnings, &MetadataError{
					Payload: PayloadFrontMatter,
					Offset:  c.Start + fm.Start,
					Err:     err,
				})
			} else {
				data = parsed
			}
		}
	}

	tag, found := grammar.FindMetaTag(c.Content)
	if !found {
		return data, ok, warnings
	}
	parsed, err := tagData(tag)
	if err != nil {
		warnings = append(warnings, &MetadataError{
			Payload: PayloadMetaTag,
			Offset:  c.Start + tag.Start,
			Err:     err,
		})
		return data, ok, warnings
	}
	return parsed, true, warnings
}

func tagData(tag grammar.MetaTag) (map[string]any, error) {
	data := map[string]any{}
	if tag.Bare() {
		return data, nil
	}
	for _, opt := range grammar.ParseOptions(tag.Options) {
		var v any
		if err := yaml.Unmarshal([]byte(opt.Value), &v); err != nil {
			return nil, fmt.Errorf("option %q: %w", opt.Key, err)
		}
		data[opt.Key] = normalize(v)
	}
	return data, nil
}

func decodeMapping(payload string) (map[string]any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(payload), &v); err != nil {
		return nil, err
	}
	switch m := normalize(v).(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return m, nil
	default:
		return nil, fmt.Errorf("%w: got %T", errNotMapping, v)
	}
}

// normalize turns YAML mappings with non-string keys into string-keyed maps
// so every value can be re-encoded as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = normalize(inner)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[fmt.Sprint(k)] = normalize(inner)
		}
		return out
	case []any:
		for i, inner := range t {
			t[i] = normalize(inner)
		}
		return t
	default:
		return v
	}
}
