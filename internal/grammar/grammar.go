// Package grammar holds the lexical recognizers used to pull structure and
// metadata out of markdown chapters: YAML front matter, inline meta tags and
// their key="value" options, ATX heading lines and the header preamble that
// precedes the first heading.
//
// Every function here is pure and safe for concurrent use.
package grammar

import (
	"regexp"
	"strings"
)

var (
	// frontMatterRe matches a YAML block delimited by triple-dash lines at
	// the very start of the text (leading whitespace allowed).
	frontMatterRe = regexp.MustCompile(`(?s)\A\s*---(.+?\n)---`)

	// metaTagRe matches <meta ...>body</meta>. Options may not contain angle
	// brackets; the body is matched lazily across lines.
	metaTagRe = regexp.MustCompile(`(?s)<meta(\s([^<>]*))?>(.*?)</meta>`)

	// optionRe matches key="value" or key='value' pairs inside a meta tag.
	optionRe = regexp.MustCompile(`(?s)([A-Za-z_:][0-9A-Za-z_:\-.]*)=(?:'(.+?)'|"(.+?)")`)

	// headingRe matches a single ATX heading line without its line break.
	headingRe = regexp.MustCompile(`^(#+) (.+)$`)
)

// Block is a front matter match.
type Block struct {
	Payload string // YAML text between the delimiters
	Start   int    // offset of the first byte of the match
	End     int    // offset just past the closing delimiter
}

// FindFrontMatter returns the YAML front matter block anchored at the start
// of content, if any.
func FindFrontMatter(content string) (Block, bool) {
	m := frontMatterRe.FindStringSubmatchIndex(content)
	if m == nil {
		return Block{}, false
	}
	return Block{
		Payload: content[m[2]:m[3]],
		Start:   m[0],
		End:     m[1],
	}, true
}

// MetaTag is one inline <meta> tag occurrence.
type MetaTag struct {
	Options string // raw option string, empty for a bare <meta>
	Body    string
	Start   int
	End     int
}

// Bare reports whether the tag carries no options at all.
func (t MetaTag) Bare() bool {
	return t.Options == ""
}

// FindMetaTag returns the first meta tag in content. A tag immediately
// preceded by '<' is escaped and never matches.
func FindMetaTag(content string) (MetaTag, bool) {
	tags := findMetaTags(content, 1)
	if len(tags) == 0 {
		return MetaTag{}, false
	}
	return tags[0], true
}

// FindMetaTags returns every meta tag in content in document order.
func FindMetaTags(content string) []MetaTag {
	return findMetaTags(content, 0)
}

func findMetaTags(content string, limit int) []MetaTag {
	var tags []MetaTag
	for off := 0; off < len(content); {
		m := metaTagRe.FindStringSubmatchIndex(content[off:])
		if m == nil {
			break
		}
		start, end := off+m[0], off+m[1]
		if start > 0 && content[start-1] == '<' {
			off = start + 1
			continue
		}
		tag := MetaTag{
			Body:  content[off+m[6] : off+m[7]],
			Start: start,
			End:   end,
		}
		if m[4] >= 0 {
			tag.Options = content[off+m[4] : off+m[5]]
		}
		tags = append(tags, tag)
		if limit > 0 && len(tags) == limit {
			break
		}
		off = end
	}
	return tags
}

// StripMetaTags removes every meta tag, including its body, from content.
func StripMetaTags(content string) string {
	tags := FindMetaTags(content)
	if len(tags) == 0 {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	prev := 0
	for _, t := range tags {
		b.WriteString(content[prev:t.Start])
		prev = t.End
	}
	b.WriteString(content[prev:])
	return b.String()
}

// Option is a single key/value pair from a meta tag. Value is the raw text
// between the quotes.
type Option struct {
	Key   string
	Value string
}

// ParseOptions extracts key="value" and key='value' pairs from a meta tag
// option string. Anything that does not look like a pair is ignored.
func ParseOptions(s string) []Option {
	matches := optionRe.FindAllStringSubmatch(s, -1)
	opts := make([]Option, 0, len(matches))
	for _, m := range matches {
		value := m[2]
		if value == "" {
			value = m[3]
		}
		opts = append(opts, Option{Key: m[1], Value: value})
	}
	return opts
}

// ParseHeading recognizes an ATX heading line: one or more '#' followed by a
// space and at least one more character. The returned title has meta tags
// removed and surrounding whitespace trimmed.
func ParseHeading(line string) (level int, title string, ok bool) {
	line = strings.TrimSuffix(line, "\r")
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(StripMetaTags(m[2])), true
}
