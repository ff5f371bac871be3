package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// fillerPhrases are speech-recognition disfluencies (Vietnamese and English).
// Multi-word phrases are listed before their single-word prefixes.
var fillerPhrases = tokenizePhrases(
	"kiểu như", "cái gì đó", "à ơi", "you know",
	"ừm", "ờ", "uh", "um", "uhm", "hmm", "hm", "kiểu", "blah",
	"like", "basically",
)

// vietnameseLetters lists the accented letters kept by Normalize. Input is
// lowercased before filtering, so only the lowercase forms are needed.
const vietnameseLetters = "àáảãạâầấẩẫậăằắẳẵặèéẻẽẹêềếểễệìíỉĩịòóỏõọôồốổỗộơờớởỡợùúủũụưừứửữựỳýỷỹỵđ"

var allowedAccents = func() map[rune]struct{} {
	set := make(map[rune]struct{}, len(vietnameseLetters))
	for _, r := range vietnameseLetters {
		set[r] = struct{}{}
	}
	return set
}()

// Normalize cleans raw recognized text: fillers are removed as whole words,
// characters outside the allowed set are dropped, whitespace is collapsed and
// the result is lowercased. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// Speech engines may emit decomposed marks; compose them so they match allowedAccents.
	composed := norm.NFC.String(text)
	lowered := cases.Lower(language.Und).String(composed)

	filtered := strings.Map(func(r rune) rune {
		if isAllowedRune(r) {
			return r
		}
		return -1
	}, lowered)

	tokens := strings.Fields(filtered)
	for {
		next := removeFillers(tokens)
		if len(next) == len(tokens) {
			break
		}
		tokens = next
	}
	return strings.Join(tokens, " ")
}

func isAllowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '\'' || r == '-':
		return true
	case unicode.IsSpace(r):
		return true
	}
	_, ok := allowedAccents[r]
	return ok
}

// removeFillers drops every token run that exactly matches a filler phrase.
// Tokens are compared whole, so "like-minded" or "umbrella" survive.
func removeFillers(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if n := matchFiller(tokens[i:]); n > 0 {
			i += n
			continue
		}
		out = append(out, tokens[i])
		i++
	}
	return out
}

func matchFiller(tokens []string) int {
	for _, phrase := range fillerPhrases {
		if len(phrase) > len(tokens) {
			continue
		}
		matched := true
		for j, word := range phrase {
			if tokens[j] != word {
				matched = false
				break
			}
		}
		if matched {
			return len(phrase)
		}
	}
	return 0
}

func tokenizePhrases(phrases ...string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, phrase := range phrases {
		out = append(out, strings.Fields(norm.NFC.String(phrase)))
	}
	return out
}
