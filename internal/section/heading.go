// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	headingMarker   = '#'
	maxHeadingLevel = 6
)

// Heading is a parsed markdown heading line.
type Heading struct {
	// Level is the number of marker characters, 1 through 6.
	Level int
	// Label is the trimmed text after the marker run. It is empty for
	// marker-only lines such as "##".
	Label string
}

// ParseHeading reports whether line is a heading under the grammar
// ^#{1,6}(\s+\S.*)?$ (leading and trailing whitespace ignored) and returns
// its level and label.
func ParseHeading(line string) (Heading, bool) {
	level, rest, ok := splitMarker(strings.TrimSpace(line))
	if !ok {
		return Heading{}, false
	}
	if rest == "" {
		return Heading{Level: level}, true
	}
	if !startsWithSpace(rest) {
		return Heading{}, false
	}
	return Heading{Level: level, Label: strings.TrimSpace(rest)}, true
}

// IsTerminator reports whether line closes a section: a marker run of one to
// six characters immediately followed by whitespace and then at least one
// non-whitespace character. Marker-only lines do not terminate.
func IsTerminator(line string) bool {
	_, rest, ok := splitMarker(strings.TrimSpace(line))
	if !ok || !startsWithSpace(rest) {
		return false
	}
	return strings.TrimSpace(rest) != ""
}

// opens reports whether line is a heading whose label equals label, ignoring
// case and surrounding whitespace. Whitespace between the marker run and the
// label is optional here, unlike in ParseHeading.
func opens(line, label string) bool {
	_, rest, ok := splitMarker(strings.TrimSpace(line))
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(rest), label)
}

// splitMarker splits a trimmed line into its marker run length and the
// remainder. ok is false when the line has no marker run or a run longer
// than maxHeadingLevel.
func splitMarker(trimmed string) (level int, rest string, ok bool) {
	for level < len(trimmed) && trimmed[level] == headingMarker {
		level++
	}
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	return level, trimmed[level:], true
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
