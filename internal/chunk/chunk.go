// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits long text into pieces that fit translation provider
// request limits, preferring cuts at sentence boundaries.
//
// Boundaries are found with a flat punctuation set; abbreviations such as
// "U.S." and decimal numbers are not special-cased.
package chunk

import "strings"

// DefaultMaxLength is the chunk size used when the caller passes a
// non-positive limit.
const DefaultMaxLength = 1800

// Split cuts text into ordered chunks of at most maxLen characters (runes).
// Text that already fits is returned as a single unmodified chunk. Longer
// text is cut after the last sentence terminal followed by a space in the
// second half of the window, else at the last space past 30% of the window,
// else exactly at maxLen. Whitespace at each cut is trimmed from both sides.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxLen {
		cut := findCut(runes, maxLen)

		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			chunks = append(chunks, piece)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

// findCut returns the index at which runes (longer than maxLen) is split.
// The prefix runes[:cut] never exceeds maxLen after trimming.
func findCut(runes []rune, maxLen int) int {
	// Sentence boundary: terminal at i, space at i+1, cut after the space.
	for i := maxLen - 1; i >= maxLen/2; i-- {
		if isTerminal(runes[i]) && runes[i+1] == ' ' {
			return i + 2
		}
	}

	// Plain space, as long as the chunk is not too short.
	floor := int(float64(maxLen) * 0.3)
	for i := maxLen; i > floor; i-- {
		if runes[i] == ' ' {
			return i
		}
	}

	return maxLen
}

func isTerminal(r rune) bool {
	switch r {
	case '.', '?', '!', ';':
		return true
	}
	return false
}
