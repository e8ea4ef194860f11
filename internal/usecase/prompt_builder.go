package usecase

import "strings"

// answerPromptTemplate is the fixed answer-generation template. The
// assembled context is interpolated into {context}; the user question is
// appended below.
const answerPromptTemplate = `Du bist ein Assistent für Qualitätsmanagement in einer Zahnarztpraxis.

WICHTIGE REGELN:
1. Beantworte Fragen NUR anhand der bereitgestellten Dokumente
2. Wenn die Information nicht in den Dokumenten steht, sage: "Diese Information finde ich nicht in den verfügbaren Dokumenten."
3. Gib IMMER die Quelle an (Dokumentname)
4. Halte Antworten präzise und praxisnah (3-7 Sätze)
5. Verwende einfache, klare Sprache
6. Bei Unsicherheit: Empfehle, das Originaldokument zu prüfen

KONTEXT:
{context}

Beantworte die folgende Frage basierend auf dem Kontext:

{question}`

// AnswerPromptBuilder renders the final prompt for the answer generator.
type AnswerPromptBuilder interface {
	Build(contextText, question string) string
}

type answerPromptBuilder struct{}

// NewAnswerPromptBuilder creates the default template-based builder.
func NewAnswerPromptBuilder() AnswerPromptBuilder {
	return &answerPromptBuilder{}
}

func (b *answerPromptBuilder) Build(contextText, question string) string {
	prompt := strings.Replace(answerPromptTemplate, "{context}", contextText, 1)
	return strings.Replace(prompt, "{question}", question, 1)
}
