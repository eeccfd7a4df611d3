package analysis

import (
	"strings"

	"github.com/artem13815/portfolio/pkg/llm/structured"
)

// AssessmentSchema describes the JSON object the assessment prompt asks for.
var AssessmentSchema = structured.Schema{
	Name: "ResumeAssessment",
	Description: `You are a senior technical recruiter. Analyze this candidate's resume and provide career insights.
Score the resume from 0 to 100 with this rubric:
- clarity and formatting: 20
- quantifiable impact: 25
- skills relevance: 20
- experience quality: 20
- completeness: 15`,
	Rules: []string{
		`"score" is the sum of the rubric points, an integer from 0 to 100.`,
		`"strengths" and "weaknesses" must each contain at least one entry. Never return them empty.`,
		`Recommend up to 5 realistic job openings matching the profile.`,
	},
	Fields: []structured.Field{
		{Name: "score", Type: structured.Integer, Description: "0-100"},
		{Name: "summary", Type: structured.String, Description: "overall critique"},
		{Name: "strengths", Type: structured.Array, Items: &structured.Field{Type: structured.String}},
		{Name: "weaknesses", Type: structured.Array, Items: &structured.Field{Type: structured.String}},
		{Name: "marketOutlook", Type: structured.String, Description: "current demand for these skills"},
		{Name: "jobRecommendations", Type: structured.Array, Items: &structured.Field{Type: structured.Object, Fields: []structured.Field{
			{Name: "title", Type: structured.String},
			{Name: "company", Type: structured.String},
			{Name: "location", Type: structured.String},
			{Name: "matchReason", Type: structured.String},
		}}},
	},
}

var assessmentDecoder = structured.MustDecoder(AssessmentSchema)

func BuildAssessmentPrompt(resumeText string) string {
	return structured.BuildPrompt(AssessmentSchema, resumeText)
}

// DecodeAssessment parses a model reply and enforces the assessment contract:
// score within 0..100, non-empty strengths and weaknesses.
func DecodeAssessment(raw string) (Assessment, error) {
	var a Assessment
	if err := assessmentDecoder.Decode(raw, &a); err != nil {
		return Assessment{}, err
	}
	a.normalize()
	return a, nil
}

const (
	genericStrength = "Resume provides enough information for an initial review."
	genericWeakness = "Add measurable results to make the impact of your work clearer."
)

func (a *Assessment) normalize() {
	switch {
	case a.Score < 0:
		a.Score = 0
	case a.Score > 100:
		a.Score = 100
	}
	a.Strengths = nonBlank(a.Strengths)
	a.Weaknesses = nonBlank(a.Weaknesses)
	if len(a.Strengths) == 0 {
		a.Strengths = []string{genericStrength}
	}
	if len(a.Weaknesses) == 0 {
		a.Weaknesses = []string{genericWeakness}
	}
	if a.JobRecommendations == nil {
		a.JobRecommendations = []JobRecommendation{}
	}
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
