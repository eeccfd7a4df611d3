package checkers

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestPingCheckerAppliesTimeout(t *testing.T) {
	c := NewPingChecker("slow", PingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}), 10*time.Millisecond)

	assert.Equal(t, "slow", c.Name())
	assert.ErrorIs(t, c.Check(context.Background()), context.DeadlineExceeded)
}

func TestPingCheckerPasses(t *testing.T) {
	c := NewOllamaChecker(PingFunc(func(context.Context) error { return nil }))
	assert.Equal(t, "ollama", c.Name())
	assert.NoError(t, c.Check(context.Background()))
}

func TestRedisCheckerUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	c := NewRedisChecker(client)
	assert.Equal(t, "redis", c.Name())
	assert.Error(t, c.Check(context.Background()))
}
