package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrOptimisticLock means the row changed since it was read.
var ErrOptimisticLock = errors.New("record was modified by another operation, reload and retry")

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// pgCode extracts the SQLSTATE surfaced by gorm's postgres driver.
func pgCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

// IsUniqueViolation reports a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == codeUniqueViolation
}

// IsForeignKeyViolation reports a foreign-key failure.
func IsForeignKeyViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == codeForeignKeyViolation
}

// IsCheckViolation reports a CHECK-constraint failure.
func IsCheckViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == codeCheckViolation
}

// Constraint returns the violated constraint name, if any.
func Constraint(err error) string {
	_, c, _ := pgCode(err)
	return c
}
