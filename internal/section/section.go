// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package section locates heading-delimited sections in normalized markdown
// text. Every function here is pure and safe for concurrent use.
package section

import "strings"

// AbstractLabel is the heading label used for paper abstracts.
const AbstractLabel = "Abstract"

// Query selects a section by heading label. The label is matched against the
// whole trimmed heading text, ignoring case.
type Query struct {
	label string
}

// NewQuery returns a Query for the given heading label.
func NewQuery(label string) Query {
	return Query{label: strings.TrimSpace(label)}
}

// Label returns the trimmed label the query matches.
func (q Query) Label() string { return q.label }

// Extract returns the body of the first section whose heading matches the
// query. The body runs from the line after the heading up to, not
// including, the next terminating heading of any level and any label. Blank
// lines are dropped, the remaining lines are joined with single spaces and
// all whitespace runs are collapsed.
//
// ok is false when no heading matches or the body is blank.
func (q Query) Extract(text string) (body string, ok bool) {
	if text == "" || q.label == "" {
		return "", false
	}

	lines := splitLines(text)
	start := -1
	for i, line := range lines {
		if opens(line, q.label) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var kept []string
	for _, line := range lines[start:] {
		if IsTerminator(line) {
			break
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}

	body = collapseWhitespace(strings.Join(kept, " "))
	if body == "" {
		return "", false
	}
	return body, true
}

// Extract is shorthand for NewQuery(label).Extract(text).
func Extract(text, label string) (string, bool) {
	return NewQuery(label).Extract(text)
}

// ExtractAbstract extracts the Abstract section.
func ExtractAbstract(text string) (string, bool) {
	return Extract(text, AbstractLabel)
}

// ExtractTitle returns the label of the first level-1 heading ("# " followed
// by text), or fallback verbatim when the document has none. Deeper headings
// are never title candidates.
func ExtractTitle(text, fallback string) string {
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "# ") {
			continue
		}
		if title := strings.TrimSpace(trimmed[2:]); title != "" {
			return title
		}
	}
	return fallback
}
