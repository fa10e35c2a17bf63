package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapError translates database errors to domain errors. A missing row or a
// foreign key that references a missing row maps to notFoundErr, a unique
// violation to duplicateErr. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	switch ConstraintCode(err) {
	case pgUniqueViolation:
		return duplicateErr
	case pgForeignKeyViolation:
		return notFoundErr
	}
	return err
}

// ConstraintCode returns the SQLSTATE of a PostgreSQL error in err's chain,
// or "" when there is none.
func ConstraintCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
