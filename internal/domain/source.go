package domain

import "fmt"

// Source is a citable, openable passage shown to the end user alongside
// the generated answer.
type Source struct {
	Title      string
	EntryID    string
	ChunkText  string
	PageNumber *int
	Score      float64
}

// Citable reports whether the source can be surfaced to the user. A source
// without a resolvable entry id has no openable document behind it and must
// never be shown. Kept as a named predicate so the rule cannot quietly
// regress into an inline filter.
func (s Source) Citable() bool {
	return s.EntryID != ""
}

// dedupKey identifies a source by title and page. Unpaged sources share
// the "none" page bucket.
func (s Source) dedupKey() string {
	page := "none"
	if s.PageNumber != nil {
		page = fmt.Sprintf("%d", *s.PageNumber)
	}
	return s.Title + "|" + page
}

// FilterSources drops non-citable sources, deduplicates the rest by
// (title, page) keeping the first occurrence so ranking order survives,
// and truncates to max entries.
func FilterSources(sources []Source, max int) []Source {
	seen := make(map[string]bool, len(sources))
	result := make([]Source, 0, len(sources))

	for _, src := range sources {
		if !src.Citable() {
			continue
		}
		key := src.dedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, src)
		if len(result) == max {
			break
		}
	}

	return result
}
