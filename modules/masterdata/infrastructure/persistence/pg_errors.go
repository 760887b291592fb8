package persistence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/veltapack/masterdata/pkg/serrors"
)

// ErrDuplicateKey is a uniqueness violation unrelated to code allocation
// (e.g. a duplicate business name). Rolled back and reported distinctly from
// allocation conflicts.
var ErrDuplicateKey = serrors.NewError(
	"DUPLICATE_KEY",
	"unique constraint violated",
	"Persistence.DuplicateKey",
)

// mapUniqueViolation classifies 23505 errors: violations on the code column
// become ErrCodeTaken and feed the allocator's retry loop, everything else is
// a caller-visible duplicate key.
func mapUniqueViolation(err error, codeColumn string) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	if strings.Contains(pgErr.ConstraintName, "_"+codeColumn+"_") {
		return ErrCodeTaken
	}
	return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
}

// mapDuplicate maps any 23505 to ErrDuplicateKey. Used outside the allocator,
// where even a code-column clash is a caller error rather than a retryable
// allocation conflict.
func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	}
	return err
}
