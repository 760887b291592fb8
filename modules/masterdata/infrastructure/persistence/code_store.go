package persistence

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/veltapack/masterdata/pkg/composables"
)

// pgCodeStore scans and reserves codes in one table of the currently bound
// partition. search_path routing means the same SQL serves every tenant.
type pgCodeStore struct {
	table  string
	column string
}

// NewCodeStore builds a CodeStore over the given table's code column. The
// table name is a compile-time constant owned by the calling repository.
func NewCodeStore(table string) CodeStore {
	return &pgCodeStore{table: table, column: "code"}
}

// ExistingCodes scans under a savepoint of its own. A failed SELECT aborts the
// surrounding Postgres transaction; rolling back to the savepoint keeps the
// enclosing transaction usable, which the timestamp fallback insert relies on.
func (s *pgCodeStore) ExistingCodes(ctx context.Context, prefix string) ([]string, error) {
	inner, err := composables.NestedTx(ctx)
	if err != nil {
		return nil, err
	}

	codes, err := s.scanCodes(ctx, inner, prefix)
	if err != nil {
		if rbErr := inner.Rollback(ctx); rbErr != nil {
			return nil, stderrors.Join(err, rbErr)
		}
		return nil, err
	}
	if err := inner.Commit(ctx); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *pgCodeStore) scanCodes(ctx context.Context, tx pgx.Tx, prefix string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s LIKE $1`, s.column, s.table, s.column)
	rows, err := tx.Query(ctx, query, prefix+"%")
	if err != nil {
		return nil, errors.Wrap(err, "failed to scan existing codes")
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, errors.Wrap(err, "failed to scan code row")
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "code row iteration error")
	}
	return codes, nil
}

// TryInsert runs insert inside a nested transaction (savepoint) so that a
// uniqueness rejection rolls back to the savepoint and leaves the enclosing
// transaction usable for the next attempt.
func (s *pgCodeStore) TryInsert(ctx context.Context, code string, insert InsertFunc) error {
	inner, err := composables.NestedTx(ctx)
	if err != nil {
		return err
	}

	if err := insert(composables.WithTx(ctx, inner), code); err != nil {
		mapped := mapUniqueViolation(err, s.column)
		if rbErr := inner.Rollback(ctx); rbErr != nil {
			// a broken savepoint makes further attempts pointless
			return stderrors.Join(mapped, rbErr)
		}
		return mapped
	}
	return inner.Commit(ctx)
}
