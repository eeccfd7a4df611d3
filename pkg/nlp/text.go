package nlp

import (
	"strings"
	"unicode/utf8"
)

// Tokens splits normalized string into tokens.
func Tokens(normalized string) []string {
	if normalized == "" {
		return []string{}
	}
	return strings.Split(normalized, " ")
}

// NameTokens returns the normalized tokens of a display name that are long
// enough to identify a person (more than two letters).
func NameTokens(name string) []string {
	out := []string{}
	for _, t := range Tokens(NormalizeText(name)) {
		if utf8.RuneCountInString(t) > 2 {
			out = append(out, t)
		}
	}
	return out
}

// ContainsPhrase проверяет наличие фразы (уже нормализованной) как целых слов.
// Пример: "rest api" найдётся в " ... rest api ..." но не в " ... rest apis ..."
func ContainsPhrase(normalizedText, normalizedPhrase string) bool {
	if normalizedPhrase == "" {
		return false
	}
	// ensure word boundaries by padding with spaces
	hay := " " + normalizedText + " "
	needle := " " + normalizedPhrase + " "
	return strings.Contains(hay, needle)
}
