package nlp

import (
	"strings"
	"unicode"
)

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }

// NormalizeText lower-cases s and keeps only runs of letters and digits,
// separated by single spaces.
func NormalizeText(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isWordRune(r)
	}), " ")
}

// NormalizeSkill is NormalizeText that keeps the symbols skill names depend
// on, so "C", "C++" and "C#" stay distinct and ".NET" keeps its dot.
func NormalizeSkill(skill string) string {
	fields := strings.FieldsFunc(strings.ToLower(skill), func(r rune) bool {
		return !isWordRune(r) && r != '+' && r != '#' && r != '.'
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimRight(strings.TrimLeft(f, "+#"), ".")
		if strings.Trim(f, ".+#") == "" {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}
