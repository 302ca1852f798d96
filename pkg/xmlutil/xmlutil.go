// Package xmlutil provides XML escaping utilities for prompt injection prevention.
package xmlutil

import (
	"encoding/xml"
	"strings"
)

// Escape replaces characters with special meaning in XML so section text
// cannot close or open elements of an XML-delimited prompt.
func Escape(s string) string {
	var buf strings.Builder
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		// EscapeText only fails on invalid UTF-8; return original on error.
		return s
	}
	return buf.String()
}

// Element returns content escaped and wrapped in a <name> element.
func Element(name, content string) string {
	return "<" + name + ">" + Escape(content) + "</" + name + ">"
}
