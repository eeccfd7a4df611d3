package checkers

import (
	"context"
	"time"
)

// Pinger is anything that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// PingChecker checks a dependency by pinging it with a timeout.
type PingChecker struct {
	name    string
	target  Pinger
	timeout time.Duration
}

func NewPingChecker(name string, target Pinger, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &PingChecker{name: name, target: target, timeout: timeout}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.target.Ping(ctx)
}

// NewOllamaChecker checks the inference server; model listing can be slow.
func NewOllamaChecker(client Pinger) *PingChecker {
	return NewPingChecker("ollama", client, 3*time.Second)
}

func NewRabbitMQChecker(conn Pinger) *PingChecker {
	return NewPingChecker("rabbitmq", conn, time.Second)
}
