// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package section

import "strings"

// splitLines splits text on "\n". A trailing "\r" stays on the line and is
// removed by the callers' trimming.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// collapseWhitespace replaces every run of Unicode whitespace with a single
// space and trims both ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Normalize collapses whitespace in s the same way section bodies are
// normalized. It is idempotent.
func Normalize(s string) string {
	return collapseWhitespace(s)
}
