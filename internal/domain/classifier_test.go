package domain_test

import (
	"testing"

	"praxis-rag/internal/domain"

	"github.com/stretchr/testify/assert"
)

func newClassifier() domain.QueryClassifier {
	return domain.NewQueryClassifier(domain.NewGermanClassifierConfig())
}

func TestClassify_Intent(t *testing.T) {
	classifier := newClassifier()

	tests := []struct {
		query  string
		intent domain.QueryIntent
	}{
		{"Wo finde ich den Hygieneplan?", domain.IntentLocation},
		{"Gib mir das Bestellformular", domain.IntentLocation},
		{"Ich brauche die Arbeitsanweisung", domain.IntentLocation},
		{"Hast du ein Protokoll zur Begehung?", domain.IntentLocation},
		{"Gibt es eine Checkliste?", domain.IntentLocation},
		{"Öffne den Hygieneplan", domain.IntentAction},
		{"Das Formular herunterladen bitte", domain.IntentAction},
		{"Wie oft müssen die Instrumente sterilisiert werden?", domain.IntentContent},
		{"Was steht im Hygieneplan zur Händedesinfektion?", domain.IntentContent},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result := classifier.Classify(tt.query)
			assert.Equal(t, tt.intent, result.Intent)
			assert.Equal(t, tt.query, result.OriginalQuery)
		})
	}
}

func TestClassify_LocationBeatsAction(t *testing.T) {
	classifier := newClassifier()

	// Matches both a location pattern (gib mir) and an action pattern
	// (download); location is checked first.
	result := classifier.Classify("Gib mir den Download vom Hygieneplan")
	assert.Equal(t, domain.IntentLocation, result.Intent)
}

func TestClassify_DocumentNames(t *testing.T) {
	classifier := newClassifier()

	t.Run("Extracts suffixed names", func(t *testing.T) {
		result := classifier.Classify("Wo finde ich den Hygieneplan?")
		assert.Contains(t, result.ExtractedDocumentNames, "Hygieneplan")
	})

	t.Run("Deduplicates case-insensitively keeping first occurrence", func(t *testing.T) {
		result := classifier.Classify("Der Hygieneplan oder der hygieneplan?")
		count := 0
		for _, name := range result.ExtractedDocumentNames {
			if name == "Hygieneplan" || name == "hygieneplan" {
				count++
			}
		}
		assert.Equal(t, 1, count)
		assert.Equal(t, "Hygieneplan", result.ExtractedDocumentNames[0])
	})

	t.Run("No names in plain content question", func(t *testing.T) {
		result := classifier.Classify("Wie oft wird gereinigt?")
		assert.Empty(t, result.ExtractedDocumentNames)
	})
}

func TestClassify_RewriteQuery(t *testing.T) {
	classifier := newClassifier()

	t.Run("Strips locator phrase for location queries", func(t *testing.T) {
		result := classifier.Classify("Wo finde ich den Hygieneplan?")
		assert.Equal(t, "Hygieneplan?", result.RewrittenQuery)
	})

	t.Run("Content queries pass through unchanged", func(t *testing.T) {
		query := "Wie oft müssen die Instrumente sterilisiert werden?"
		result := classifier.Classify(query)
		assert.Equal(t, query, result.RewrittenQuery)
	})

	t.Run("Falls back to original when stripping empties the query", func(t *testing.T) {
		result := classifier.Classify("Gib mir den")
		assert.Equal(t, "Gib mir den", result.RewrittenQuery)
	})
}

func TestClassify_Idempotent(t *testing.T) {
	classifier := newClassifier()

	first := classifier.Classify("Wo finde ich den Hygieneplan?")
	second := classifier.Classify("Wo finde ich den Hygieneplan?")
	assert.Equal(t, first, second)
}
