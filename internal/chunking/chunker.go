// Package chunking splits normalized text into overlapping, sentence-aligned
// segments sized for a single model call.
package chunking

import (
	"regexp"
	"strings"
)

// Default chunking policy, matching the single-pass threshold used by the
// pipeline: texts above Threshold characters are chunked with Size/Overlap.
const (
	DefaultThreshold = 8000
	DefaultSize      = 4000
	DefaultOverlap   = 500
)

// Chunk is one bounded, sentence-aligned segment of a longer text.
// Overlap is the number of characters at the start of Content carried over
// from the previous chunk for context continuity.
type Chunk struct {
	Content string
	Index   int
	Overlap int
}

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]+`)

// Split chunks text on sentence boundaries, greedily packing sentences until
// adding the next one would exceed maxSize. Each chunk after the first starts
// with the trailing overlap characters of its predecessor. The result is
// deterministic for identical inputs, and no chunk is ever empty.
//
// An overlap at or above maxSize is a configuration error and is clamped
// below the chunk size so chunking always makes forward progress.
func Split(text string, maxSize, overlap int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxSize <= 0 {
		maxSize = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxSize {
		overlap = maxSize - 1
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []Chunk
	current := ""
	currentOverlap := 0

	for _, sentence := range sentences {
		sentence += "."

		if current == "" {
			current = sentence
			continue
		}
		if len(current)+1+len(sentence) <= maxSize {
			current += " " + sentence
			continue
		}

		chunks = append(chunks, Chunk{Content: current, Index: len(chunks), Overlap: currentOverlap})

		if overlap > 0 {
			tail := trailingChars(current, overlap)
			currentOverlap = len(tail)
			current = tail + " " + sentence
		} else {
			currentOverlap = 0
			current = sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, Chunk{Content: current, Index: len(chunks), Overlap: currentOverlap})
	}

	return chunks
}

// splitSentences breaks text on terminal punctuation, dropping empty pieces.
func splitSentences(text string) []string {
	parts := sentenceBoundaryRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// trailingChars returns the last n bytes of s without splitting a rune.
func trailingChars(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := len(s) - n
	for cut < len(s) && !isRuneStart(s[cut]) {
		cut++
	}
	return s[cut:]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
