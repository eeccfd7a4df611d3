package resilient

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/llm"
	"github.com/artem13815/portfolio/pkg/logging"
)

func TestGeneratePassesThrough(t *testing.T) {
	next := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "echo:" + prompt, nil
	})
	g := New(next, Settings{}, logging.Discard())

	out, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", out)
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	next := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		return "", apperr.InferenceUnavailable(errors.New("connection refused"))
	})
	g := New(next, Settings{ConsecutiveFailures: 2, OpenTimeout: time.Minute}, logging.Discard())

	for i := 0; i < 2; i++ {
		_, err := g.Generate(context.Background(), "p")
		require.Error(t, err)
	}
	assert.Equal(t, "open", g.State())

	_, err := g.Generate(context.Background(), "p")
	assert.Equal(t, apperr.KindInferenceUnavailable, apperr.KindOf(err))
	assert.Equal(t, 2, calls, "open breaker must short-circuit")
}

func TestHalfOpenBreakerAdmitsConcurrentPair(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	arrived := make(chan struct{}, 2)
	release := make(chan struct{})
	next := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		if failing.Load() {
			return "", apperr.InferenceUnavailable(errors.New("connection refused"))
		}
		arrived <- struct{}{}
		select {
		case <-release:
			return "ok:" + prompt, nil
		case <-time.After(2 * time.Second):
			return "", errors.New("peer call never arrived")
		}
	})
	g := New(next, Settings{ConsecutiveFailures: 1, OpenTimeout: 20 * time.Millisecond}, logging.Discard())

	_, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	require.Equal(t, "open", g.State())
	failing.Store(false)
	time.Sleep(40 * time.Millisecond)

	var (
		wg   sync.WaitGroup
		errs [2]error
	)
	for i, prompt := range []string{"profile", "assessment"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = g.Generate(context.Background(), prompt)
		}()
	}
	for i := 0; i < 2; i++ {
		select {
		case <-arrived:
		case <-time.After(time.Second):
			t.Fatal("half-open breaker rejected one of two concurrent calls")
		}
	}
	close(release)
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, "closed", g.State())
}

func TestCancelledCallsDoNotTripBreaker(t *testing.T) {
	next := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", context.Canceled
	})
	g := New(next, Settings{ConsecutiveFailures: 1}, logging.Discard())

	_, err := g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "closed", g.State())
}

func TestLimiterHonoursContext(t *testing.T) {
	next := llm.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "ok", nil
	})
	g := New(next, Settings{RPS: 0.001, Burst: 1}, logging.Discard())

	_, err := g.Generate(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = g.Generate(ctx, "second")
	require.Error(t, err)
}
