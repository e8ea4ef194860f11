package usecase

import (
	"fmt"
	"strings"

	"praxis-rag/internal/domain"
)

// NoDocumentsFoundSentinel is the literal context handed to the generator
// when every strategy came back empty. The generator must tell the user
// nothing was found instead of inventing an answer.
const NoDocumentsFoundSentinel = "Keine relevanten Dokumente gefunden."

// AssembledContext is the text block and citation list handed to the
// answer generator.
type AssembledContext struct {
	ContextText string
	Sources     []domain.Source
}

// ContextAssembler renders fused search results into the generation
// context.
type ContextAssembler interface {
	Assemble(intent domain.QueryIntent, documentMatches []domain.DocumentMatch, contentMatches []domain.ContentMatch) AssembledContext
}

type contextAssembler struct {
	maxSources int
}

// NewContextAssembler creates an assembler that caps the final source list
// at maxSources.
func NewContextAssembler(maxSources int) ContextAssembler {
	return &contextAssembler{maxSources: maxSources}
}

func (a *contextAssembler) Assemble(
	intent domain.QueryIntent,
	documentMatches []domain.DocumentMatch,
	contentMatches []domain.ContentMatch,
) AssembledContext {
	var contextText string
	var sources []domain.Source

	if intent == domain.IntentLocation || intent == domain.IntentAction {
		contextText, sources = a.assembleLocation(documentMatches, contentMatches)
	} else {
		contextText, sources = a.assembleContent(documentMatches, contentMatches)
	}

	return AssembledContext{
		ContextText: contextText,
		Sources:     domain.FilterSources(sources, a.maxSources),
	}
}

// assembleLocation renders the document list for "where is" and "open"
// questions. Only content matches whose title also appears among the
// document matches become sources: a bare document hit has no passage
// behind it and must not be cited.
func (a *contextAssembler) assembleLocation(
	documentMatches []domain.DocumentMatch,
	contentMatches []domain.ContentMatch,
) (string, []domain.Source) {
	if len(documentMatches) > 0 {
		var sb strings.Builder
		sb.WriteString("Verfügbare Dokumente:\n")
		matchedTitles := make(map[string]bool, len(documentMatches))
		for _, m := range documentMatches {
			matchedTitles[m.Title] = true
			sb.WriteString(fmt.Sprintf("- %s (%s) [%s, Score %.2f]\n", m.Title, m.FileType, m.MatchType, m.Score))
		}

		var sources []domain.Source
		for _, c := range contentMatches {
			if matchedTitles[c.Title] {
				sources = append(sources, contentMatchSource(c))
			}
		}
		return sb.String(), sources
	}

	if len(contentMatches) > 0 {
		var sb strings.Builder
		sb.WriteString("Verfügbare Dokumente:\n")
		for _, title := range uniqueTitles(contentMatches) {
			sb.WriteString("- " + title + "\n")
		}

		sources := make([]domain.Source, 0, len(contentMatches))
		for _, c := range contentMatches {
			sources = append(sources, contentMatchSource(c))
		}
		return sb.String(), sources
	}

	return NoDocumentsFoundSentinel, nil
}

// assembleContent renders the passages a content question is answered
// from, in fused ranking order. Every rendered passage becomes a source.
func (a *contextAssembler) assembleContent(
	documentMatches []domain.DocumentMatch,
	contentMatches []domain.ContentMatch,
) (string, []domain.Source) {
	if len(contentMatches) > 0 {
		var sb strings.Builder
		sb.WriteString("Verfügbare Dokumente:\n")
		for _, title := range uniqueTitles(contentMatches) {
			sb.WriteString("- " + title + "\n")
		}

		sb.WriteString("\nDokumenteninhalte:\n")
		sources := make([]domain.Source, 0, len(contentMatches))
		for _, c := range contentMatches {
			if c.PageNumber != nil {
				sb.WriteString(fmt.Sprintf("[%s, Seite %d]\n", c.Title, *c.PageNumber))
			} else {
				sb.WriteString(fmt.Sprintf("[%s]\n", c.Title))
			}
			sb.WriteString(c.ChunkText + "\n\n")
			sources = append(sources, contentMatchSource(c))
		}
		return sb.String(), sources
	}

	if len(documentMatches) > 0 {
		var sb strings.Builder
		sb.WriteString("Verfügbare Dokumente:\n")
		for _, m := range documentMatches {
			sb.WriteString("- " + m.Title + "\n")
		}
		sb.WriteString("\nZu diesen Dokumenten wurde kein passender Inhalt gefunden.\n")
		return sb.String(), nil
	}

	return NoDocumentsFoundSentinel, nil
}

func contentMatchSource(c domain.ContentMatch) domain.Source {
	return domain.Source{
		Title:      c.Title,
		EntryID:    c.EntryID,
		ChunkText:  c.ChunkText,
		PageNumber: c.PageNumber,
		Score:      c.Score,
	}
}

func uniqueTitles(matches []domain.ContentMatch) []string {
	seen := make(map[string]bool, len(matches))
	var titles []string
	for _, m := range matches {
		if !seen[m.Title] {
			seen[m.Title] = true
			titles = append(titles, m.Title)
		}
	}
	return titles
}
