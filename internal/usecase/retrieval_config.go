package usecase

// RetrievalConfig carries the tuned retrieval parameters. The fuzzy
// threshold/weight and the two vector score floors are empirically chosen
// constants without a documented derivation; they live here instead of
// inline so they can be re-tuned from configuration.
type RetrievalConfig struct {
	// TitleSearchLimit caps keyword title search results.
	TitleSearchLimit int
	// VectorSearchLimit caps raw vector hits before fusion.
	VectorSearchLimit int
	// VectorScoreThreshold is the score floor for vector hits feeding
	// fusion. Lower than the standalone floor to favor recall.
	VectorScoreThreshold float64
	// StandaloneVectorThreshold is the stricter floor used when vector
	// search results are served without fusion.
	StandaloneVectorThreshold float64
	// FuzzyThreshold is the minimum title similarity admitted during
	// fuzzy backfill.
	FuzzyThreshold float64
	// FuzzyWeight scales admitted fuzzy similarities below keyword
	// scores.
	FuzzyWeight float64
	// FuzzyBackfillMin triggers fuzzy backfill when a location query
	// found fewer document matches than this.
	FuzzyBackfillMin int
	// MaxDocumentMatches and MaxContentMatches cap the fused lists.
	MaxDocumentMatches int
	MaxContentMatches  int
	// MaxSources caps the final citation list.
	MaxSources int
	// Namespace scopes content-index operations.
	Namespace string
}

// DefaultRetrievalConfig returns the production defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TitleSearchLimit:          5,
		VectorSearchLimit:         10,
		VectorScoreThreshold:      0.4,
		StandaloneVectorThreshold: 0.5,
		FuzzyThreshold:            0.5,
		FuzzyWeight:               0.8,
		FuzzyBackfillMin:          3,
		MaxDocumentMatches:        5,
		MaxContentMatches:         5,
		MaxSources:                5,
		Namespace:                 "practice",
	}
}
