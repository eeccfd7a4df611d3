package llm

import "context"

// Generator is a minimal abstraction for completion-style LLMs used by the domain.
// Implementations report transport-level failures as apperr.KindInferenceUnavailable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
