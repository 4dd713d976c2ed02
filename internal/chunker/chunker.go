// Package chunker splits long text into segments that fit the
// destination's per-block text-length cap, preferring word boundaries.
package chunker

import "unicode"

// DefaultLimit is the destination's per-text-block character cap.
const DefaultLimit = 2000

// Split cuts text into ordered chunks of at most limit characters.
// Each cut prefers the last space within the allowed prefix so words
// stay intact; a prefix with no space at all is cut hard at the limit.
// Leading whitespace of the remainder is dropped before the next cut.
// Empty input yields nil. A non-positive limit falls back to
// DefaultLimit.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rest := []rune(text)
	var chunks []string

	for len(rest) > 0 {
		if len(rest) <= limit {
			chunks = append(chunks, string(rest))
			break
		}

		cut := limit
		if !unicode.IsSpace(rest[limit]) {
			// The exact-limit cut would split a word. Backtrack to the
			// last space within the prefix, if there is one.
			if idx := lastSpace(rest[:limit]); idx > 0 {
				cut = idx
			}
		}

		chunks = append(chunks, string(rest[:cut]))
		rest = trimLeadingSpace(rest[cut:])
	}

	return chunks
}

// lastSpace returns the index of the last whitespace rune, or -1.
func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return -1
}

// trimLeadingSpace drops leading whitespace runes.
// Each iteration of Split consumes at least one rune because of this,
// which is what guarantees termination.
func trimLeadingSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return runes[i:]
}
