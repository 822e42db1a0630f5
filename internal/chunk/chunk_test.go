// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertReassembles checks that chunks appear in text in order and that only
// whitespace separates consecutive chunks.
func assertReassembles(t *testing.T, text string, chunks []string) {
	t.Helper()
	rest := text
	for i, c := range chunks {
		idx := strings.Index(rest, c)
		require.GreaterOrEqual(t, idx, 0, "chunk %d not found in remaining text", i)
		assert.Empty(t, strings.TrimSpace(rest[:idx]), "non-whitespace dropped before chunk %d", i)
		rest = rest[idx+len(c):]
	}
	assert.Empty(t, strings.TrimSpace(rest), "non-whitespace dropped after last chunk")
}

func sentenceText(n int) string {
	// Every sentence is 120 characters including the final period.
	sentence := strings.Repeat("word ", 23) + "done."
	parts := make([]string, n)
	for i := range parts {
		parts[i] = sentence
	}
	return strings.Join(parts, " ")
}

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	tests := []string{
		"",
		"hello",
		"  padded text stays untouched  ",
		strings.Repeat("a", 1800),
	}
	for _, text := range tests {
		got := Split(text, 1800)
		require.Len(t, got, 1)
		assert.Equal(t, text, got[0])
	}
}

func TestSplitDefaultMaxLength(t *testing.T) {
	text := strings.Repeat("x", DefaultMaxLength)
	assert.Equal(t, []string{text}, Split(text, 0))
	assert.Len(t, Split(text+"y", -1), 2)
}

func TestSplitSentenceBoundaries(t *testing.T) {
	text := sentenceText(33)
	require.Greater(t, len(text), 3900)

	chunks := Split(text, 1800)

	require.Len(t, chunks, 3)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 1800, "chunk %d too long", i)
		assert.True(t, strings.HasSuffix(c, "done."), "chunk %d cut mid-sentence: %q", i, c[len(c)-10:])
		assert.True(t, strings.HasPrefix(c, "word"), "chunk %d starts mid-word", i)
	}
	assert.Equal(t, text, strings.Join(chunks, " "))
	assertReassembles(t, text, chunks)
}

func TestSplitEachTerminal(t *testing.T) {
	for _, term := range []string{".", "?", "!", ";"} {
		t.Run(term, func(t *testing.T) {
			text := strings.Repeat("a", 14) + term + " " + strings.Repeat("b", 10)
			chunks := Split(text, 20)
			require.Len(t, chunks, 2)
			assert.Equal(t, strings.Repeat("a", 14)+term, chunks[0])
			assert.Equal(t, strings.Repeat("b", 10), chunks[1])
		})
	}
}

func TestSplitIgnoresBoundaryInFirstHalf(t *testing.T) {
	// The only terminal sits before maxLen/2, so the plain-space rule applies.
	text := "ab. " + strings.Repeat("c", 10) + " " + strings.Repeat("d", 20)
	chunks := Split(text, 20)
	assert.Equal(t, "ab. "+strings.Repeat("c", 10), chunks[0])
	assertReassembles(t, text, chunks)
}

func TestSplitFallsBackToSpace(t *testing.T) {
	text := strings.Repeat("a", 12) + " " + strings.Repeat("b", 12)
	chunks := Split(text, 20)
	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 12), chunks[0])
	assert.Equal(t, strings.Repeat("b", 12), chunks[1])
}

func TestSplitHardCut(t *testing.T) {
	// The only space is before 30% of the window.
	text := "ab " + strings.Repeat("c", 40)
	chunks := Split(text, 20)
	require.Len(t, chunks, 3)
	assert.Equal(t, "ab "+strings.Repeat("c", 17), chunks[0])
	assert.Equal(t, strings.Repeat("c", 20), chunks[1])
	assert.Equal(t, strings.Repeat("c", 3), chunks[2])
	assertReassembles(t, text, chunks)
}

func TestSplitCountsRunes(t *testing.T) {
	text := strings.Repeat("你", 30)
	chunks := Split(text, 10)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.Equal(t, 10, utf8.RuneCountInString(c))
	}
}

func TestSplitRandomTextInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := []string{"graph", "model", "LLM", "U.S.", "3.14", "item;", "why?", "yes!", "ok.", "recommendation"}

	for n := 0; n < 200; n++ {
		var b strings.Builder
		count := rng.Intn(300)
		for i := 0; i < count; i++ {
			if i > 0 {
				b.WriteString(strings.Repeat(" ", 1+rng.Intn(2)))
			}
			b.WriteString(words[rng.Intn(len(words))])
		}
		text := b.String()
		maxLen := 10 + rng.Intn(200)

		chunks := Split(text, maxLen)
		require.NotEmpty(t, chunks)
		if utf8.RuneCountInString(text) > maxLen {
			for _, c := range chunks {
				assert.NotEmpty(t, c)
				assert.LessOrEqual(t, utf8.RuneCountInString(c), maxLen)
			}
		}
		assertReassembles(t, text, chunks)
	}
}
