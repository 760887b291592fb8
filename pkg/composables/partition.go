package composables

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapack/masterdata/pkg/constants"
	"github.com/veltapack/masterdata/pkg/serrors"
)

// ErrPartitionBind means the tenant schema could not be bound. The operation
// fails closed: no query runs against a default or stale partition.
var ErrPartitionBind = serrors.NewError(
	"PARTITION_BIND_FAILED",
	"failed to bind tenant partition",
	"Tenant.PartitionBindFailed",
)

var schemaNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// ValidSchemaName reports whether s is safe to use as a schema identifier.
func ValidSchemaName(s string) bool {
	return schemaNamePattern.MatchString(s)
}

// InPartition runs fn inside one transaction bound to the tenant's schema:
// acquire a pooled connection, SET search_path, begin, run fn, commit on
// success or roll back on error/panic. The connection is always handed back
// with search_path reset, so a reused connection can never serve a stale
// tenant's partition to its next borrower.
//
// When a transaction is already present in ctx the partition is considered
// bound and fn runs within it directly.
func InPartition(ctx context.Context, fn func(context.Context) error) error {
	if tx, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && tx != nil {
		return fn(ctx)
	}

	tenant, err := UseTenant(ctx)
	if err != nil {
		return err
	}
	if !ValidSchemaName(tenant.Schema) {
		return fmt.Errorf("%w: invalid schema name %q", ErrPartitionBind, tenant.Schema)
	}

	pool, err := UsePool(ctx)
	if err != nil {
		return err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer releaseNeutral(ctx, conn)

	if _, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{tenant.Schema}.Sanitize()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPartitionBind, tenant.Schema, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if rbErr := tx.Rollback(rbCtx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			UseLogger(ctx).WithError(rbErr).Error("failed to rollback partition transaction")
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

func InPartitionResult[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := InPartition(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = fn(txCtx)
		return innerErr
	})
	return out, err
}

// releaseNeutral resets search_path before returning the connection to the
// pool. A connection that cannot be reset is discarded, never reused.
func releaseNeutral(ctx context.Context, conn *pgxpool.Conn) {
	resetCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if _, err := conn.Exec(resetCtx, "RESET search_path"); err != nil {
		UseLogger(ctx).WithError(err).Warn("discarding connection: search_path reset failed")
		_ = conn.Hijack().Close(resetCtx)
		return
	}
	conn.Release()
}
