package search

import (
	"strings"
	"unicode/utf8"
)

const longKeywordMinRunes = 3

// BuildQueries derives the ordered search variants for one transcript: the full
// normalized text first, then the keyword-only text, then only the long keywords.
// Later variants are looser and are tried only when earlier ones find nothing.
// The first element is always Normalize(raw), even when empty; no two elements are equal.
func BuildQueries(raw string) []string {
	cleaned := Normalize(raw)
	keywords := ExtractKeywords(cleaned)

	queries := []string{cleaned}
	if len(keywords) >= 2 {
		queries = appendDistinct(queries, strings.Join(keywords, " "))
	}

	long := make([]string, 0, len(keywords))
	for _, word := range keywords {
		if utf8.RuneCountInString(word) >= longKeywordMinRunes {
			long = append(long, word)
		}
	}
	if len(long) >= 2 {
		queries = appendDistinct(queries, strings.Join(long, " "))
	}
	return queries
}

func appendDistinct(queries []string, candidate string) []string {
	for _, existing := range queries {
		if existing == candidate {
			return queries
		}
	}
	return append(queries, candidate)
}
