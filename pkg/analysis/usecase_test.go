package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
	"github.com/artem13815/portfolio/pkg/logging"
)

func reply(s string) llm.Generator {
	return llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) { return s, nil })
}

func TestAssessDecodesModelReply(t *testing.T) {
	svc := NewService(reply(`{
		"score": 78,
		"summary": "Solid backend profile.",
		"strengths": ["Clear impact", " "],
		"weaknesses": ["No summary section"],
		"marketOutlook": "High demand",
		"jobRecommendations": [{"title": "Go Developer", "company": "Acme", "location": "Remote", "matchReason": "Go"}]
	}`), logging.Discard(), 0)

	res, err := svc.Assess(context.Background(), "resume")
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, 78, res.Assessment.Score)
	assert.Equal(t, []string{"Clear impact"}, res.Assessment.Strengths)
	require.Len(t, res.Assessment.JobRecommendations, 1)
	assert.Equal(t, "Go Developer", res.Assessment.JobRecommendations[0].Title)
}

func TestAssessEnforcesContract(t *testing.T) {
	svc := NewService(reply(`{"score": 130, "strengths": [], "weaknesses": null}`), logging.Discard(), 0)

	res, err := svc.Assess(context.Background(), "resume")
	require.NoError(t, err)
	assert.Equal(t, 100, res.Assessment.Score)
	assert.NotEmpty(t, res.Assessment.Strengths)
	assert.NotEmpty(t, res.Assessment.Weaknesses)
	assert.NotNil(t, res.Assessment.JobRecommendations)
}

func TestAssessFallsBack(t *testing.T) {
	gens := map[string]llm.Generator{
		"inference unavailable": llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
			return "", apperr.InferenceUnavailable(errors.New("timeout"))
		}),
		"malformed output": reply("Sorry, I cannot analyze this."),
		"truncated reply":  reply(`{"score": 70, "summary": "Strong backg`),
	}
	for name, gen := range gens {
		t.Run(name, func(t *testing.T) {
			res, err := NewService(gen, logging.Discard(), 0).Assess(context.Background(), "resume")
			require.NoError(t, err)
			assert.True(t, res.Fallback)
			assert.Equal(t, Fallback(), res.Assessment)
		})
	}
}

func TestAssessCoercesDriftedTypes(t *testing.T) {
	svc := NewService(reply(`{"score": "82", "summary": 7, "strengths": ["Go", 3], "weaknesses": ["Few metrics"]}`), logging.Discard(), 0)

	res, err := svc.Assess(context.Background(), "resume")
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, 82, res.Assessment.Score)
	assert.Equal(t, "7", res.Assessment.Summary)
	assert.Equal(t, []string{"Go", "3"}, res.Assessment.Strengths)
}

func TestFallbackContent(t *testing.T) {
	a := Fallback()
	assert.Equal(t, 50, a.Score)
	assert.Equal(t, "Automated fallback: Unable to analyze via model; showing basic summary.", a.Summary)
	assert.Equal(t, []string{"Provided resume text parsed successfully."}, a.Strengths)
	assert.Equal(t, []string{"AI analysis failed; results limited."}, a.Weaknesses)
	assert.Equal(t, "N/A", a.MarketOutlook)
	assert.Empty(t, a.JobRecommendations)
}

func TestAssessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", apperr.InferenceUnavailable(ctx.Err())
	})
	_, err := NewService(gen, logging.Discard(), 0).Assess(ctx, "resume")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildAssessmentPromptListsRubric(t *testing.T) {
	p := BuildAssessmentPrompt("Jane Doe")
	assert.Contains(t, p, "quantifiable impact: 25")
	assert.Contains(t, p, "Never return them empty")
	assert.Contains(t, p, "Jane Doe")
}
