package persistence

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapack/masterdata/pkg/composables"
)

//go:embed schema.sql
var partitionDDL string

// ProvisionPartition creates a tenant schema with the full master-data table
// set. Control-plane operation: it runs before the tenant can serve requests.
func ProvisionPartition(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if !composables.ValidSchemaName(schema) {
		return fmt.Errorf("%w: invalid schema name %q", composables.ErrPartitionBind, schema)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	ident := pgx.Identifier{schema}.Sanitize()
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+ident); err != nil {
		return fmt.Errorf("%w: %v", composables.ErrPartitionBind, err)
	}
	if _, err := tx.Exec(ctx, "SET LOCAL search_path TO "+ident); err != nil {
		return fmt.Errorf("%w: %v", composables.ErrPartitionBind, err)
	}
	if _, err := tx.Exec(ctx, partitionDDL); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
