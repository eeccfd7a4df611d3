package checkers

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresChecker(pool *pgxpool.Pool) *PingChecker {
	return NewPingChecker("postgres", pool, time.Second)
}
