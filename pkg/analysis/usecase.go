package analysis

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
	"github.com/artem13815/portfolio/pkg/resume"
)

// UseCase - оценка резюме моделью.
type UseCase interface {
	Assess(ctx context.Context, resumeText string) (Result, error)
}

// Result carries the assessment and whether it is the fallback one.
type Result struct {
	Assessment Assessment
	Fallback   bool
}

type service struct {
	llm      llm.Generator
	log      logrus.FieldLogger
	maxChars int
}

func NewService(model llm.Generator, log logrus.FieldLogger, maxChars int) UseCase {
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &service{llm: model, log: log, maxChars: maxChars}
}

// Assess never fails on inference problems: it degrades to Fallback().
// Only context cancellation and unexpected errors are returned.
func (s *service) Assess(ctx context.Context, resumeText string) (Result, error) {
	start := time.Now()
	prompt := BuildAssessmentPrompt(resume.Excerpt(resumeText, s.maxChars))

	raw, err := s.llm.Generate(ctx, prompt)
	var a Assessment
	if err == nil {
		a, err = DecodeAssessment(raw)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		switch apperr.KindOf(err) {
		case apperr.KindInferenceUnavailable, apperr.KindMalformedModelOutput:
			// degrade gracefully
			s.log.WithError(err).WithField("kind", apperr.KindOf(err)).Warn("assessment fell back to default")
			return Result{Assessment: Fallback(), Fallback: true}, nil
		}
		return Result{}, err
	}

	s.log.WithFields(logrus.Fields{
		"score":    a.Score,
		"duration": time.Since(start),
	}).Debug("assessment produced")
	return Result{Assessment: a}, nil
}
