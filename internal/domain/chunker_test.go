package domain_test

import (
	"strings"
	"testing"

	"praxis-rag/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestChunker_Chunk_WholeText(t *testing.T) {
	chunker := domain.NewChunker(0, -1) // defaults

	t.Run("Short text yields one chunk without page", func(t *testing.T) {
		chunks := chunker.Chunk("Der Hygieneplan regelt die Reinigung.", nil)
		assert.Len(t, chunks, 1)
		assert.Equal(t, "Der Hygieneplan regelt die Reinigung.", chunks[0].Text)
		assert.Nil(t, chunks[0].PageNumber)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
	})

	t.Run("Long text is split with overlap and covers everything", func(t *testing.T) {
		small := domain.NewChunker(100, 20)
		sentence := "Die Praxisbegehung wird vom Gesundheitsamt angekündigt. "
		text := strings.Repeat(sentence, 20)

		chunks := small.Chunk(text, nil)
		assert.Greater(t, len(chunks), 1)

		for i, c := range chunks {
			assert.Equal(t, i, c.ChunkIndex)
			assert.LessOrEqual(t, len([]rune(c.Text)), 100)
			assert.NotEmpty(t, c.Text)
		}
		// No sentence may be lost between chunk boundaries.
		joined := strings.Join(chunkTexts(chunks), " ")
		assert.Contains(t, joined, "Praxisbegehung")
	})

	t.Run("Cuts at sentence boundaries when close enough", func(t *testing.T) {
		small := domain.NewChunker(50, 10)
		text := "Dieser erste Satz endet nach vierzig Zeichen. Und dann geht der zweite Satz weiter und weiter."

		chunks := small.Chunk(text, nil)
		assert.GreaterOrEqual(t, len(chunks), 2)
		assert.True(t, strings.HasSuffix(chunks[0].Text, "."),
			"first chunk should end at a sentence terminator, got %q", chunks[0].Text)
	})

	t.Run("Terminates when overlap >= chunk size", func(t *testing.T) {
		degenerate := domain.NewChunker(10, 10)
		chunks := degenerate.Chunk(strings.Repeat("abcdefghij", 10), nil)
		assert.NotEmpty(t, chunks)
		for i, c := range chunks {
			assert.Equal(t, i, c.ChunkIndex)
		}
	})

	t.Run("Whitespace only text yields no chunks", func(t *testing.T) {
		chunks := chunker.Chunk("   \n\t  ", nil)
		assert.Empty(t, chunks)
	})
}

func TestChunker_Chunk_PageAware(t *testing.T) {
	chunker := domain.NewChunker(100, 20)

	t.Run("Each chunk carries its page", func(t *testing.T) {
		pages := map[int]string{
			1: "Seite eins über Hygiene.",
			2: "Seite zwei über Sterilisation.",
		}
		chunks := chunker.Chunk("ignored when pages exist", pages)
		assert.Len(t, chunks, 2)
		assert.Equal(t, 1, *chunks[0].PageNumber)
		assert.Equal(t, 2, *chunks[1].PageNumber)
	})

	t.Run("Pages processed in ascending order with monotonic index", func(t *testing.T) {
		pages := map[int]string{
			3: "Dritte Seite.",
			1: "Erste Seite.",
			2: "Zweite Seite.",
		}
		chunks := chunker.Chunk("", pages)
		assert.Len(t, chunks, 3)
		for i, c := range chunks {
			assert.Equal(t, i, c.ChunkIndex)
			assert.Equal(t, i+1, *c.PageNumber)
		}
	})

	t.Run("Empty pages are skipped without index gaps", func(t *testing.T) {
		pages := map[int]string{
			1: "Inhalt.",
			2: "   ",
			3: "Mehr Inhalt.",
		}
		chunks := chunker.Chunk("", pages)
		assert.Len(t, chunks, 2)
		assert.Equal(t, 0, chunks[0].ChunkIndex)
		assert.Equal(t, 1, chunks[1].ChunkIndex)
		assert.Equal(t, 1, *chunks[0].PageNumber)
		assert.Equal(t, 3, *chunks[1].PageNumber)
	})

	t.Run("Long page splits into multiple chunks of the same page", func(t *testing.T) {
		pages := map[int]string{
			5: strings.Repeat("Ein Satz über das Bestellformular. ", 10),
		}
		chunks := chunker.Chunk("", pages)
		assert.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.Equal(t, 5, *c.PageNumber)
		}
	})
}

func TestEstimatePageNumber(t *testing.T) {
	assert.Equal(t, 1, domain.EstimatePageNumber(0, 0, 0))
	assert.Equal(t, 1, domain.EstimatePageNumber(0, 10, 5))
	assert.Equal(t, 5, domain.EstimatePageNumber(9, 10, 5))
	// Never past the last page.
	assert.Equal(t, 3, domain.EstimatePageNumber(99, 10, 3))
}

func chunkTexts(chunks []domain.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
