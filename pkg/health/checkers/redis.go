package checkers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewRedisChecker(client redis.UniversalClient) *PingChecker {
	return NewPingChecker("redis", PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}), time.Second)
}
