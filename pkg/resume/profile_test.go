package resume

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
	"github.com/artem13815/portfolio/pkg/logging"
)

const sampleReply = "Here you go:\n```json\n" + `{
  "fullName": "Jane Doe",
  "headline": "Backend Engineer",
  "email": "jane@example.com",
  "skills": [
    {"name": "Go", "level": 140, "category": "backend"},
    {"name": "golang", "level": 80, "category": "backend"},
    {"name": "Figma", "level": -3, "category": "ux"},
    {"name": "  ", "level": 10}
  ],
  "experience": [{"company": "Acme", "role": "Engineer", "period": "2020 - Present"}],
  "projects": [{"name": "cli", "technologies": null}]
}` + "\n```"

func TestDecodeProfileNormalizes(t *testing.T) {
	p, err := DecodeProfile(sampleReply)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", p.FullName)
	require.Len(t, p.Skills, 2)
	assert.Equal(t, Skill{Name: "Go", Level: 100, Category: "backend"}, p.Skills[0])
	assert.Equal(t, Skill{Name: "Figma", Level: 0, Category: CategoryOther}, p.Skills[1])
	assert.Equal(t, "", p.Experience[0].Description)
	assert.NotNil(t, p.Education)
	assert.NotNil(t, p.Projects[0].Technologies)
}

func TestDecodeProfileToleratesNumericDrift(t *testing.T) {
	p, err := DecodeProfile(`{"fullName": "Bob Builder", "phone": 5551234,
		"skills": [{"name": "Go", "level": 85.5}, {"name": "Rust", "level": "70"}],
		"education": [{"institution": "MIT", "year": 2020}]}`)
	require.NoError(t, err)

	assert.Equal(t, "Bob Builder", p.FullName)
	assert.Equal(t, "5551234", p.Phone)
	require.Len(t, p.Skills, 2)
	assert.Equal(t, 85, p.Skills[0].Level)
	assert.Equal(t, 70, p.Skills[1].Level)
	require.Len(t, p.Education, 1)
	assert.Equal(t, "2020", p.Education[0].Year)
}

func TestDecodeProfileMissingNameBecomesPlaceholder(t *testing.T) {
	p, err := DecodeProfile(`{"headline": "Engineer"}`)
	require.NoError(t, err)
	assert.Equal(t, NamePlaceholder, p.FullName)

	_, err = NewValidator(nil).Validate(p, "", nil)
	requireRejected(t, err, ReasonMissingName)
}

func TestBuildProfilePromptEmbedsTextVerbatim(t *testing.T) {
	text := "Jane Doe\n12 Baker Street\n\"quoted\""
	prompt := BuildProfilePrompt(text)
	assert.Contains(t, prompt, text)
	assert.Contains(t, prompt, `"fullName": string`)
	assert.Contains(t, prompt, `"category": string // one of "frontend", "backend", "design", "soft-skills", "tools", "other"`)
	assert.Equal(t, prompt, BuildProfilePrompt(text))
}

func TestFallbackProfile(t *testing.T) {
	text := "12 Baker St\nab\nJane Doe\nReach me at jane.doe+cv@mail.example.org or 555-1234\n"
	p := FallbackProfile(text)

	assert.Equal(t, "Jane Doe", p.FullName)
	assert.Equal(t, "jane.doe+cv@mail.example.org", p.Email)
	assert.Equal(t, "Resume", p.Headline)
	assert.Equal(t, text, p.About)
	assert.Empty(t, p.Skills)
	assert.NotNil(t, p.Skills)
}

func TestFallbackProfileDefaults(t *testing.T) {
	long := strings.Repeat("x1", 300)
	p := FallbackProfile(long)
	assert.Equal(t, "Unknown", p.FullName)
	assert.Equal(t, "", p.Email)
	assert.Equal(t, long[:400]+"...", p.About)
}

func TestProfileExtractorUsesModel(t *testing.T) {
	var prompt string
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return sampleReply, nil
	})
	ex := NewProfileExtractor(gen, logging.Discard(), 20)

	out, err := ex.Extract(context.Background(), "Jane Doe, engineer with a long history")
	require.NoError(t, err)
	assert.False(t, out.Fallback)
	assert.Equal(t, "Jane Doe", out.Profile.FullName)
	assert.Contains(t, prompt, "Jane Doe, engineer w")
	assert.NotContains(t, prompt, "long history")
}

func TestProfileExtractorFallsBack(t *testing.T) {
	replies := map[string]llm.GeneratorFunc{
		"unavailable": func(ctx context.Context, p string) (string, error) {
			return "", apperr.InferenceUnavailable(errors.New("refused"))
		},
		"malformed": func(ctx context.Context, p string) (string, error) {
			return "I am sorry, I can't do that", nil
		},
	}
	for name, gen := range replies {
		t.Run(name, func(t *testing.T) {
			ex := NewProfileExtractor(gen, logging.Discard(), 0)
			out, err := ex.Extract(context.Background(), "Jane Doe\njane@x.io")
			require.NoError(t, err)
			assert.True(t, out.Fallback)
			assert.Equal(t, "Jane Doe", out.Profile.FullName)
			assert.Equal(t, "jane@x.io", out.Profile.Email)
		})
	}
}

func TestProfileExtractorPropagatesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		return "", apperr.InferenceUnavailable(ctx.Err())
	})
	_, err := NewProfileExtractor(gen, logging.Discard(), 0).Extract(ctx, "Jane Doe")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProfileExtractorPassesThroughUnexpectedErrors(t *testing.T) {
	boom := errors.New("boom")
	gen := llm.GeneratorFunc(func(ctx context.Context, p string) (string, error) { return "", boom })
	_, err := NewProfileExtractor(gen, logging.Discard(), 0).Extract(context.Background(), "Jane Doe")
	assert.ErrorIs(t, err, boom)
}
