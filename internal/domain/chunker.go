package domain

import (
	"sort"
	"strings"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 2000
	// DefaultChunkOverlap is the number of characters shared between
	// consecutive chunks of the same text.
	DefaultChunkOverlap = 200
)

// Chunk is a bounded slice of document text, the unit stored in the
// content index and cited back to the user.
type Chunk struct {
	Text       string
	PageNumber *int // nil when the source had no per-page text
	ChunkIndex int  // 0-based, strictly increasing per document
}

// Chunker splits extracted document text into indexable chunks.
type Chunker interface {
	Chunk(fullText string, pageTexts map[int]string) []Chunk
}

type pageAwareChunker struct {
	chunkSize int
	overlap   int
}

// NewChunker creates a Chunker with the given window size and overlap.
// Non-positive values fall back to the defaults.
func NewChunker(chunkSize, overlap int) Chunker {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultChunkOverlap
	}
	return &pageAwareChunker{chunkSize: chunkSize, overlap: overlap}
}

// Chunk splits text into chunks. When pageTexts is non-empty the split is
// done per page so every chunk carries the page it was sliced from, which
// keeps citations pointing at real pages. Pages whose trimmed text is empty
// are skipped without leaving a gap in the chunk index. Without a page map
// the whole text is split as one stream and PageNumber stays nil.
func (c *pageAwareChunker) Chunk(fullText string, pageTexts map[int]string) []Chunk {
	var chunks []Chunk

	if len(pageTexts) > 0 {
		pages := make([]int, 0, len(pageTexts))
		for page := range pageTexts {
			pages = append(pages, page)
		}
		sort.Ints(pages)

		index := 0
		for _, page := range pages {
			pageText := pageTexts[page]
			if strings.TrimSpace(pageText) == "" {
				continue
			}

			pageNum := page
			if len([]rune(pageText)) <= c.chunkSize {
				chunks = append(chunks, Chunk{
					Text:       strings.TrimSpace(pageText),
					PageNumber: &pageNum,
					ChunkIndex: index,
				})
				index++
				continue
			}

			for _, piece := range splitIntoChunks(pageText, c.chunkSize, c.overlap) {
				chunks = append(chunks, Chunk{
					Text:       piece,
					PageNumber: &pageNum,
					ChunkIndex: index,
				})
				index++
			}
		}
		return chunks
	}

	for i, piece := range splitIntoChunks(fullText, c.chunkSize, c.overlap) {
		chunks = append(chunks, Chunk{Text: piece, ChunkIndex: i})
	}
	return chunks
}

// EstimatePageNumber approximates the page a chunk belongs to when the
// extraction produced no per-page text. Assumes chunks are spread evenly
// across pages.
func EstimatePageNumber(chunkIndex, totalChunks, totalPages int) int {
	if totalChunks == 0 || totalPages == 0 {
		return 1
	}
	chunksPerPage := float64(totalChunks) / float64(totalPages)
	estimated := int(float64(chunkIndex)/chunksPerPage) + 1
	if estimated > totalPages {
		return totalPages
	}
	return estimated
}
