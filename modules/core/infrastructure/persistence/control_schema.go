package persistence

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var controlDDL string

// EnsureControlSchema creates the tenant registry tables. Idempotent; run at
// startup before any tenant traffic.
func EnsureControlSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, controlDDL)
	return err
}
