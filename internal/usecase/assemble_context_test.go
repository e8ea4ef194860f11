package usecase_test

import (
	"testing"

	"praxis-rag/internal/domain"
	"praxis-rag/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func page(n int) *int { return &n }

func TestAssemble_Location_WithDocumentMatches(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	docMatches := []domain.DocumentMatch{
		{Title: "Hygieneplan", FileType: domain.FileTypePDF, Score: 1.0, MatchType: domain.MatchTypeExact},
		{Title: "Reinigungsplan", FileType: domain.FileTypeDOCX, Score: 0.9, MatchType: domain.MatchTypeKeyword},
	}
	contentMatches := []domain.ContentMatch{
		{Title: "Hygieneplan", EntryID: "e1", ChunkText: "Händedesinfektion...", PageNumber: page(2), Score: 0.6},
		{Title: "Anderes Dokument", EntryID: "e9", ChunkText: "irrelevant", Score: 0.5},
	}

	result := assembler.Assemble(domain.IntentLocation, docMatches, contentMatches)

	assert.Contains(t, result.ContextText, "Verfügbare Dokumente:")
	assert.Contains(t, result.ContextText, "- Hygieneplan (pdf) [exact, Score 1.00]")
	assert.Contains(t, result.ContextText, "- Reinigungsplan (docx) [keyword, Score 0.90]")

	// Only passages whose title is among the document matches are citable.
	assert.Len(t, result.Sources, 1)
	assert.Equal(t, "Hygieneplan", result.Sources[0].Title)
	assert.Equal(t, 2, *result.Sources[0].PageNumber)
}

func TestAssemble_Location_ContentFallback(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	contentMatches := []domain.ContentMatch{
		{Title: "Hygieneplan", EntryID: "e1", ChunkText: "Text", Score: 0.6},
		{Title: "Hygieneplan", EntryID: "e1", ChunkText: "Mehr Text", Score: 0.5},
	}

	result := assembler.Assemble(domain.IntentLocation, nil, contentMatches)

	assert.Contains(t, result.ContextText, "Verfügbare Dokumente:")
	assert.Contains(t, result.ContextText, "- Hygieneplan")
	// Duplicate title is listed once in the context and deduped in sources.
	assert.Len(t, result.Sources, 1)
}

func TestAssemble_Action_UsesLocationLayout(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	docMatches := []domain.DocumentMatch{
		{Title: "Bestellformular", FileType: domain.FileTypeXLSX, Score: 1.0, MatchType: domain.MatchTypeExact},
	}

	result := assembler.Assemble(domain.IntentAction, docMatches, nil)
	assert.Contains(t, result.ContextText, "- Bestellformular (xlsx) [exact, Score 1.00]")
}

func TestAssemble_Content_WithPassages(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	contentMatches := []domain.ContentMatch{
		{Title: "Praxisbegehung Checkliste", EntryID: "e1", ChunkText: "Die Begehung wird angekündigt.", PageNumber: page(3), Score: 0.7},
		{Title: "Praxisbegehung Checkliste", EntryID: "e1", ChunkText: "Unterlagen bereithalten.", Score: 0.6},
	}

	result := assembler.Assemble(domain.IntentContent, nil, contentMatches)

	assert.Contains(t, result.ContextText, "Verfügbare Dokumente:")
	assert.Contains(t, result.ContextText, "Dokumenteninhalte:")
	assert.Contains(t, result.ContextText, "[Praxisbegehung Checkliste, Seite 3]")
	assert.Contains(t, result.ContextText, "Die Begehung wird angekündigt.")
	assert.Contains(t, result.ContextText, "[Praxisbegehung Checkliste]")

	// Both passages are cited: same title, different page buckets.
	assert.Len(t, result.Sources, 2)
}

func TestAssemble_Content_DocumentsWithoutPassages(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	docMatches := []domain.DocumentMatch{
		{Title: "Hygieneplan", FileType: domain.FileTypePDF, Score: 0.9, MatchType: domain.MatchTypeKeyword},
	}

	result := assembler.Assemble(domain.IntentContent, docMatches, nil)

	assert.Contains(t, result.ContextText, "- Hygieneplan")
	assert.Contains(t, result.ContextText, "Zu diesen Dokumenten wurde kein passender Inhalt gefunden.")
	assert.Empty(t, result.Sources)
}

func TestAssemble_EmptyResults_Sentinel(t *testing.T) {
	assembler := usecase.NewContextAssembler(5)

	for _, intent := range []domain.QueryIntent{domain.IntentLocation, domain.IntentContent, domain.IntentAction} {
		result := assembler.Assemble(intent, nil, nil)
		assert.Equal(t, usecase.NoDocumentsFoundSentinel, result.ContextText)
		assert.Empty(t, result.Sources)
	}
}

func TestAssemble_SourceCapAndNonCitable(t *testing.T) {
	assembler := usecase.NewContextAssembler(2)

	contentMatches := []domain.ContentMatch{
		{Title: "A", EntryID: "e1", ChunkText: "a", Score: 0.9},
		{Title: "B", EntryID: "", ChunkText: "b", Score: 0.8}, // unresolvable, never cited
		{Title: "C", EntryID: "e3", ChunkText: "c", Score: 0.7},
		{Title: "D", EntryID: "e4", ChunkText: "d", Score: 0.6},
	}

	result := assembler.Assemble(domain.IntentContent, nil, contentMatches)

	assert.Len(t, result.Sources, 2)
	assert.Equal(t, "A", result.Sources[0].Title)
	assert.Equal(t, "C", result.Sources[1].Title)
}
