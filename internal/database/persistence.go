package database

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// Driver error codes for unique constraint violations.
const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// PersistenceError marks a failed write or commit against the store, such as a
// constraint violation or a dropped connection. Read failures are not wrapped.
type PersistenceError struct {
	Op              string
	UniqueViolation bool
	Err             error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("database %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err as a PersistenceError. It returns nil for a nil err.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, UniqueViolation: isUniqueViolation(err), Err: err}
}

// IsPersistenceError reports whether err's tree contains a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}
