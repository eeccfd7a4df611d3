package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

const aboutLimit = 400

// FallbackProfile derives a minimal profile from plain text when the model
// could not be used. It never fails.
func FallbackProfile(text string) Profile {
	p := Profile{
		FullName:   inferName(text),
		Headline:   "Resume",
		About:      truncateRunes(text, aboutLimit),
		Email:      reEmail.FindString(text),
		Skills:     []Skill{},
		Experience: []Experience{},
		Education:  []Education{},
		Projects:   []Project{},
	}
	return p
}

// inferName picks the first line that looks like a name: 3 to 80 characters,
// no digits and no "@".
func inferName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < 3 || n > 80 {
			continue
		}
		if strings.Contains(line, "@") || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
			continue
		}
		return line
	}
	return "Unknown"
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit]) + "..."
}
