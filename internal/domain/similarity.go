package domain

import "strings"

// Similarity scores how alike two short strings are, in [0, 1]. Exact
// case-insensitive equality scores 1.0, substring containment in either
// direction 0.8, anything else the Jaccard similarity of the two distinct
// character sets. This is a coarse heuristic tuned for document titles; it
// is deliberately not an edit distance and unsuitable for long text.
func Similarity(a, b string) float64 {
	s1 := strings.ToLower(a)
	s2 := strings.ToLower(b)

	if s1 == s2 {
		return 1.0
	}
	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		return 0.8
	}

	set1 := runeSet(s1)
	set2 := runeSet(s2)

	intersection := 0
	for r := range set1 {
		if set2[r] {
			intersection++
		}
	}
	union := len(set2)
	for r := range set1 {
		if !set2[r] {
			union++
		}
	}
	if union == 0 {
		return 1.0
	}

	return float64(intersection) / float64(union)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
