package search

import (
	"strings"
	"unicode/utf8"
)

var stopWords = map[string]struct{}{
	// Vietnamese
	"là": {}, "của": {}, "và": {}, "có": {}, "cho": {}, "với": {}, "này": {}, "đã": {}, "được": {}, "không": {},
	"một": {}, "những": {}, "nhưng": {}, "hay": {}, "hoặc": {}, "thì": {}, "mà": {}, "cũng": {}, "như": {},
	"ơi": {}, "à": {}, "ừ": {}, "rồi": {}, "nè": {}, "nha": {}, "nhé": {},
	// English
	"the": {}, "is": {}, "a": {}, "an": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"and": {}, "or": {}, "but": {}, "not": {}, "it": {}, "be": {}, "are": {}, "was": {}, "were": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "we": {}, "they": {}, "my": {}, "your": {},
}

// ExtractKeywords drops stop-words and single-rune tokens from normalized text.
// Input order and duplicates are kept.
func ExtractKeywords(normalized string) []string {
	words := strings.Split(strings.ToLower(normalized), " ")
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if _, ok := stopWords[word]; ok {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
