package grammar

import "strings"

// Heading is a heading line located in a chapter.
type Heading struct {
	Level int
	Title string
	Start int // offset of the first '#'
	End   int // offset just past the line break (or end of text)
}

// ScanOptions tunes which lines ScanHeadings may treat as headings.
type ScanOptions struct {
	// SkipCodeFences ignores heading-like lines inside ``` or ~~~ fenced blocks.
	SkipCodeFences bool
}

// ScanHeadings returns every heading line in text, in document order. Lines
// belonging to a leading YAML front matter block are never headings.
func ScanHeadings(text string, opts ScanOptions) []Heading {
	skipUntil := 0
	if fm, ok := FindFrontMatter(text); ok {
		skipUntil = fm.End
	}

	var (
		headings []Heading
		fence    string
	)
	for start := 0; start < len(text); {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start + 1
		}
		line := strings.TrimRight(text[start:end], "\n")

		switch {
		case start < skipUntil:
		case opts.SkipCodeFences && fence != "":
			if closesFence(line, fence) {
				fence = ""
			}
		case opts.SkipCodeFences && openFence(line) != "":
			fence = openFence(line)
		default:
			if level, title, ok := ParseHeading(line); ok {
				headings = append(headings, Heading{
					Level: level,
					Title: title,
					Start: start,
					End:   end,
				})
			}
		}
		start = end
	}
	return headings
}

// Preamble returns the header region of text: everything before the first
// heading, or the whole text when there is none.
func Preamble(text string, headings []Heading) string {
	if len(headings) == 0 {
		return text
	}
	return text[:headings[0].Start]
}

// openFence returns the fence marker that line opens, or "".
func openFence(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return ""
	}
	for _, c := range []byte{'`', '~'} {
		n := 0
		for n < len(trimmed) && trimmed[n] == c {
			n++
		}
		if n >= 3 {
			return trimmed[:n]
		}
	}
	return ""
}

func closesFence(line, fence string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	return strings.Trim(trimmed, fence[:1]) == ""
}
