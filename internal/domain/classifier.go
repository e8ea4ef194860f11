package domain

import (
	"regexp"
	"strings"
)

// QueryIntent is the classified purpose of a user question.
type QueryIntent string

const (
	// IntentLocation means the user wants to find a document.
	IntentLocation QueryIntent = "location"
	// IntentContent means the user wants an answer from document text.
	IntentContent QueryIntent = "content"
	// IntentAction means the user wants to retrieve or open a document.
	IntentAction QueryIntent = "action"
)

// ClassifiedQuery is the per-request classification result. It is derived
// and never persisted.
type ClassifiedQuery struct {
	Intent                 QueryIntent
	OriginalQuery          string
	ExtractedDocumentNames []string
	RewrittenQuery         string
}

// ClassifierConfig holds the locale-specific pattern tables. The intent
// vocabulary and the document-name suffixes differ per language, so they
// are data, not code.
type ClassifierConfig struct {
	// LocationPatterns are tested first; any match wins.
	LocationPatterns []*regexp.Regexp
	// ActionPatterns are tested when no location pattern matched.
	ActionPatterns []*regexp.Regexp
	// NamePatterns extract candidate document names. The first capture
	// group of each pattern is taken as the name.
	NamePatterns []*regexp.Regexp
	// LocatorStrips are removed from the front of location queries
	// before retrieval.
	LocatorStrips []*regexp.Regexp
}

// QueryClassifier infers intent from a raw question, extracts candidate
// document names and rewrites the query for retrieval.
type QueryClassifier interface {
	Classify(query string) ClassifiedQuery
}

type patternClassifier struct {
	cfg ClassifierConfig
}

// NewQueryClassifier creates a pattern-table classifier for the given
// locale configuration.
func NewQueryClassifier(cfg ClassifierConfig) QueryClassifier {
	return &patternClassifier{cfg: cfg}
}

// NewGermanClassifierConfig returns the pattern tables for German practice
// staff queries.
func NewGermanClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		LocationPatterns: []*regexp.Regexp{
			regexp.MustCompile(`wo\s+(finde|ist|liegt|befindet)`),
			regexp.MustCompile(`gib\s+mir`),
			regexp.MustCompile(`zeig\s+(mir\s+)?`),
			regexp.MustCompile(`ich\s+brauche`),
			regexp.MustCompile(`ich\s+suche`),
			regexp.MustCompile(`hast\s+du`),
			regexp.MustCompile(`gibt\s+es`),
		},
		ActionPatterns: []*regexp.Regexp{
			regexp.MustCompile(`download`),
			regexp.MustCompile(`herunterladen`),
			regexp.MustCompile(`öffne`),
			regexp.MustCompile(`zeige\s+mir\s+das\s+dokument`),
		},
		NamePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)(?:den|das|die)\s+([a-zäöüß]+(?:plan|formular|antrag|protokoll|anweisung|liste))`),
			regexp.MustCompile(`(?i)([a-zäöüß]+(?:plan|formular|antrag|protokoll|anweisung|liste))`),
		},
		LocatorStrips: []*regexp.Regexp{
			regexp.MustCompile(`(?i)wo\s+(finde|ist|liegt|befindet)\s+(ich\s+)?(den|das|die)?`),
			regexp.MustCompile(`(?i)gib\s+mir\s+(den|das|die)?`),
			regexp.MustCompile(`(?i)zeig\s+(mir\s+)?(den|das|die)?`),
			regexp.MustCompile(`(?i)ich\s+(brauche|suche)\s+(den|das|die)?`),
		},
	}
}

// Classify runs the intent patterns in fixed priority order: location
// first, then action, defaulting to content. Patterns are tested for
// presence only, never scored.
func (c *patternClassifier) Classify(query string) ClassifiedQuery {
	lower := strings.ToLower(strings.TrimSpace(query))

	intent := IntentContent
	if matchesAny(c.cfg.LocationPatterns, lower) {
		intent = IntentLocation
	} else if matchesAny(c.cfg.ActionPatterns, lower) {
		intent = IntentAction
	}

	return ClassifiedQuery{
		Intent:                 intent,
		OriginalQuery:          query,
		ExtractedDocumentNames: c.extractDocumentNames(query),
		RewrittenQuery:         c.rewriteQuery(query, intent),
	}
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// extractDocumentNames scans for tokens ending in a domain-noun suffix and
// returns them deduplicated, case-insensitively, in order of first
// occurrence.
func (c *patternClassifier) extractDocumentNames(query string) []string {
	var names []string
	seen := make(map[string]bool)

	for _, pattern := range c.cfg.NamePatterns {
		for _, match := range pattern.FindAllStringSubmatch(query, -1) {
			if len(match) < 2 {
				continue
			}
			name := strings.TrimSpace(match[1])
			key := strings.ToLower(name)
			if name == "" || seen[key] {
				continue
			}
			seen[key] = true
			names = append(names, name)
		}
	}

	return names
}

// rewriteQuery strips leading locator phrases from location queries so the
// remaining document name drives retrieval. Content and action queries pass
// through unchanged. An empty result falls back to the original query.
func (c *patternClassifier) rewriteQuery(query string, intent QueryIntent) string {
	if intent != IntentLocation {
		return query
	}

	rewritten := query
	for _, strip := range c.cfg.LocatorStrips {
		rewritten = strip.ReplaceAllString(rewritten, "")
	}
	rewritten = strings.TrimSpace(rewritten)

	if rewritten == "" {
		return query
	}
	return rewritten
}
