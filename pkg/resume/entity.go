package resume

import (
	"strings"

	"github.com/artem13815/portfolio/pkg/nlp"
)

// Document is an uploaded resume file.
type Document struct {
	Filename  string
	MediaType string
	Data      []byte
}

// Profile is the structured professional data extracted from a resume.
type Profile struct {
	FullName   string       `json:"fullName"`
	Headline   string       `json:"headline"`
	About      string       `json:"about"`
	Location   string       `json:"location"`
	Email      string       `json:"email"`
	Phone      string       `json:"phone"`
	LinkedIn   string       `json:"linkedin"`
	GitHub     string       `json:"github"`
	Website    string       `json:"website"`
	Skills     []Skill      `json:"skills"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Projects   []Project    `json:"projects"`
}

type Skill struct {
	Name     string `json:"name"`
	Level    int    `json:"level"` // 0-100
	Category string `json:"category"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"` // free text, e.g. "Jan 2020 - Present"
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Link         string   `json:"link"`
}

const CategoryOther = "other"

// SkillCategories lists the accepted skill categories.
var SkillCategories = []string{"frontend", "backend", "design", "soft-skills", "tools", CategoryOther}

// Normalize trims fields, clamps skill levels into 0..100, maps unknown
// categories to "other", drops duplicate skills and replaces nil slices.
func (p *Profile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Headline = strings.TrimSpace(p.Headline)
	p.Email = strings.TrimSpace(p.Email)

	skills := make([]Skill, 0, len(p.Skills))
	seen := make(map[string]struct{}, len(p.Skills))
	for _, s := range p.Skills {
		s.Name = strings.TrimSpace(s.Name)
		key := nlp.CanonicalSkill(s.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		s.Level = clampLevel(s.Level)
		s.Category = normalizeCategory(s.Category)
		skills = append(skills, s)
	}
	p.Skills = skills

	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	for i := range p.Projects {
		if p.Projects[i].Technologies == nil {
			p.Projects[i].Technologies = []string{}
		}
	}
}

func clampLevel(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func normalizeCategory(c string) string {
	c = strings.ToLower(strings.TrimSpace(c))
	for _, known := range SkillCategories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}
