package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// healthTimeout bounds the readiness probe so a stalled pool cannot hang
// the endpoint.
const healthTimeout = 2 * time.Second

// CheckHealth reports whether the pool can currently reach the database.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	return pool.Ping(ctx)
}
