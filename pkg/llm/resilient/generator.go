// Package resilient wraps an llm.Generator with client-side rate limiting
// and a circuit breaker so a struggling inference server is not hammered.
package resilient

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
)

type Settings struct {
	// RPS <= 0 disables rate limiting.
	RPS   float64
	Burst int
	// ConsecutiveFailures opens the breaker. Defaults to 5.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open. Defaults to 30s.
	OpenTimeout time.Duration
	// HalfOpenRequests is how many trial calls a half-open breaker lets
	// through at once. Defaults to 2, one pipeline run issues two calls
	// concurrently.
	HalfOpenRequests uint32
}

type Generator struct {
	next    llm.Generator
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

var _ llm.Generator = (*Generator)(nil)

func New(next llm.Generator, s Settings, log logrus.FieldLogger) *Generator {
	limit := rate.Inf
	if s.RPS > 0 {
		limit = rate.Limit(s.RPS)
	}
	if s.Burst <= 0 {
		s.Burst = 1
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	if s.HalfOpenRequests == 0 {
		s.HalfOpenRequests = 2
	}
	threshold := s.ConsecutiveFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ollama",
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		// a cancelled caller says nothing about the server's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("inference circuit breaker changed state")
		},
	})

	return &Generator{
		next:    next,
		limiter: rate.NewLimiter(limit, s.Burst),
		breaker: cb,
	}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", apperr.InferenceUnavailable(err)
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.Generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperr.InferenceUnavailable(err)
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state, e.g. for readiness output.
func (g *Generator) State() string {
	return g.breaker.State().String()
}
