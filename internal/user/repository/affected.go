package repository

import (
	"database/sql"

	"github.com/allisson/useradmin/internal/database"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// checkAffected turns a write that touched no row into a not found error.
func checkAffected(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return database.NewPersistenceError("rows affected", err)
	}
	if rows == 0 {
		return userDomain.UserNotFound(id)
	}
	return nil
}
