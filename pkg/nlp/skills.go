package nlp

import "strings"

// skillAliases maps normalized aliases onto one canonical spelling.
var skillAliases = map[string]string{
	"postgres": "postgresql",
	"k8s":      "kubernetes",
	"golang":   "go",
	"js":       "javascript",
	"ts":       "typescript",
	"rest api": "rest",
	"restful":  "rest",
	"ci cd":    "cicd",
	"node":     "nodejs",
	"node js":  "nodejs",
	"node.js":  "nodejs",
	"react.js": "react",
	"vue.js":   "vue",
	"react js": "react",
	"reactjs":  "react",
	"vue js":   "vue",
	"vuejs":    "vue",
}

// CanonicalSkill returns the key two skill names share when they denote the
// same skill, e.g. "Golang" and "go". Empty input yields "".
func CanonicalSkill(skill string) string {
	base := NormalizeSkill(skill)
	if base == "" {
		return ""
	}
	if c, ok := skillAliases[base]; ok {
		return c
	}
	// Token-level expansions (for multi-word skills)
	parts := strings.Split(base, " ")
	if len(parts) > 1 {
		for i, p := range parts {
			if c, ok := skillAliases[p]; ok {
				parts[i] = c
			}
		}
		return strings.Join(parts, " ")
	}
	return base
}
