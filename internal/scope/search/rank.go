package search

import "sort"

// Rank orders matches by descending relevance. Equal relevance keeps
// corpus order. The input slice is left untouched.
func Rank(matches []Match) []Match {
	ranked := make([]Match, len(matches))
	copy(ranked, matches)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Relevance != ranked[j].Relevance {
			return ranked[i].Relevance > ranked[j].Relevance
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}

// Limit truncates ranked matches to at most n; n <= 0 keeps all
func Limit(matches []Match, n int) []Match {
	if n <= 0 || n >= len(matches) {
		return matches
	}
	return matches[:n]
}
