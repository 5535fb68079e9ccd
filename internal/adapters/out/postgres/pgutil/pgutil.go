// Package pgutil holds the row-locking clause and error translation shared by
// the postgres repositories.
package pgutil

import (
	"errors"

	"production/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes that mean a concurrent writer got there first.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
)

// ForUpdate locks the selected rows until the transaction ends.
var ForUpdate = clause.Locking{Strength: clause.LockingStrengthUpdate}

// Translate maps driver errors onto the domain taxonomy. A missing record
// becomes errs.ObjectNotFoundError for entity/id, lock and serialization
// failures become errs.ConflictError. Anything else is returned unchanged.
func Translate(err error, entity string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundErrorWithCause(entity, id, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return errs.NewConflictError("ConcurrentUpdate", pgErr.Message)
	case codeUniqueViolation:
		return errs.NewConflictError("DuplicateKey", pgErr.Message)
	default:
		return err
	}
}

// Wrap applies Translate without a lookup subject, for writes.
func Wrap(err error) error {
	return Translate(err, "", nil)
}
