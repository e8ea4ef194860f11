package domain

import "strings"

// sentence terminators recognized when snapping a chunk boundary.
// Latin punctuation followed by a space only; text without such
// punctuation is cut at the hard window edge.
var sentenceTerminators = []string{". ", "! ", "? "}

// splitIntoChunks slides a window of chunkSize characters over text and
// emits trimmed, overlapping pieces. When the window edge falls inside the
// text, the cut is moved back to the nearest sentence terminator as long as
// that keeps at least 70% of the window; otherwise the cut stays at the
// edge. The window start always advances, so the loop terminates even when
// overlap >= chunkSize.
func splitIntoChunks(text string, chunkSize, overlap int) []string {
	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			if cut := lastSentenceEnd(runes, end); cut >= start+(chunkSize*7)/10 {
				end = cut + 1
			}
		}

		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastSentenceEnd returns the index of the last sentence terminator whose
// trailing space falls at or before limit, or -1 if there is none.
func lastSentenceEnd(runes []rune, limit int) int {
	window := string(runes[:limit])
	best := -1
	for _, term := range sentenceTerminators {
		if idx := strings.LastIndex(window, term); idx >= 0 {
			pos := len([]rune(window[:idx]))
			if pos > best {
				best = pos
			}
		}
	}
	return best
}
