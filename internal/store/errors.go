// ABOUTME: Error kinds returned by the store
// ABOUTME: Classifies SQLite driver errors into constraint and backend failures

package store

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrInit is returned when the database file or schema cannot be set up.
	ErrInit = errors.New("store initialization failed")

	// ErrNotFound is returned when a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConstraintViolation is returned when a uniqueness or reference constraint fails.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrDuplicateKey narrows ErrConstraintViolation to a primary key or
	// unique index collision. Errors wrapping it also wrap ErrConstraintViolation.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrBackend wraps any other failure surfaced by the storage engine.
	ErrBackend = errors.New("backend failure")
)

// isConstraintViolation checks if the error is a SQLite constraint failure
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "constraint failed")
}

// isDuplicateKey reports whether a constraint failure came from a primary key
// or unique index rather than a foreign key or NOT NULL check.
func isDuplicateKey(err error) bool {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		code := sqlErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isDuplicateColumn reports whether an ALTER TABLE ADD COLUMN failed because
// the column is already there.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// wrapErr classifies a driver error. The op string reads like "inserting timer record".
func wrapErr(op string, err error) error {
	if isConstraintViolation(err) {
		if isDuplicateKey(err) {
			return fmt.Errorf("%s: %w: %w: %v", op, ErrConstraintViolation, ErrDuplicateKey, err)
		}
		return fmt.Errorf("%s: %w: %v", op, ErrConstraintViolation, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrBackend, err)
}
