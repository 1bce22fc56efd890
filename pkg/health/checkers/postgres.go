package checkers

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultProbeTimeout bounds a single dependency probe so a stuck dependency
// fails the readiness check instead of hanging it.
const DefaultProbeTimeout = time.Second

// PostgresChecker probes the database with a round-trip query.
type PostgresChecker struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresChecker(pool *pgxpool.Pool, timeout time.Duration) *PostgresChecker {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &PostgresChecker{pool: pool, timeout: timeout}
}

func (c *PostgresChecker) Name() string { return "postgres" }

func (c *PostgresChecker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	var one int
	return c.pool.QueryRow(ctx, `SELECT 1`).Scan(&one)
}
