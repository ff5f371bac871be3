package domain

import "strings"

type Language string

const (
	LanguageVietnamese Language = "vi-VN"
	LanguageEnglish    Language = "en-US"
)

// NormalizeLanguage maps loose inputs ("vi", "EN_us") onto a supported language,
// returning fallback for anything unrecognised.
func NormalizeLanguage(raw string, fallback Language) Language {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "_", "-")
	switch {
	case value == "vi" || value == "vi-vn":
		return LanguageVietnamese
	case value == "en" || strings.HasPrefix(value, "en-"):
		return LanguageEnglish
	default:
		return fallback
	}
}

// Short returns the two-letter code used for message lookup.
func (l Language) Short() string {
	if l == LanguageEnglish {
		return "en"
	}
	return "vi"
}
