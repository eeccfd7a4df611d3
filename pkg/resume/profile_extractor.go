package resume

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
)

// Extraction is the outcome of a profile extraction.
type Extraction struct {
	Profile Profile
	// Fallback is true when the profile came from text heuristics because
	// the model could not be used. Fallback profiles skip validation.
	Fallback bool
}

// ProfileExtractor turns resume text into a Profile via the model.
type ProfileExtractor struct {
	llm      llm.Generator
	log      logrus.FieldLogger
	maxChars int
}

func NewProfileExtractor(model llm.Generator, log logrus.FieldLogger, maxChars int) *ProfileExtractor {
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &ProfileExtractor{llm: model, log: log, maxChars: maxChars}
}

// Extract asks the model for a profile. Inference or decoding failures fall
// back to FallbackProfile; context cancellation is returned as is.
func (e *ProfileExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	start := time.Now()
	prompt := BuildProfilePrompt(Excerpt(text, e.maxChars))

	raw, err := e.llm.Generate(ctx, prompt)
	var p Profile
	if err == nil {
		p, err = DecodeProfile(raw)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Extraction{}, ctxErr
		}
		switch apperr.KindOf(err) {
		case apperr.KindInferenceUnavailable, apperr.KindMalformedModelOutput:
			e.log.WithError(err).WithField("kind", apperr.KindOf(err)).Warn("profile extraction fell back to text heuristics")
			return Extraction{Profile: FallbackProfile(text), Fallback: true}, nil
		}
		return Extraction{}, err
	}

	e.log.WithFields(logrus.Fields{
		"chars":    len(text),
		"skills":   len(p.Skills),
		"duration": time.Since(start),
	}).Debug("profile extracted")
	return Extraction{Profile: p}, nil
}

// Excerpt cuts text to at most limit runes.
func Excerpt(text string, limit int) string {
	r := []rune(text)
	if limit <= 0 || len(r) <= limit {
		return text
	}
	return string(r[:limit])
}
