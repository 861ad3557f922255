package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/useradmin/internal/audit"
	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// MySQLUserRepository implements User persistence for MySQL databases.
// External ids are stored as BINARY(16).
type MySQLUserRepository struct {
	reader
	stamper *audit.Stamper
}

// NewMySQLUserRepository creates a new MySQL User repository instance.
func NewMySQLUserRepository(db *sql.DB, stamper *audit.Stamper) *MySQLUserRepository {
	return &MySQLUserRepository{
		reader:  reader{db: db, postgres: false},
		stamper: stamper,
	}
}

// Create stamps and inserts the user, then stores the generated id on it.
func (m *MySQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)
	m.stamper.Created(ctx, user)

	externalID, err := user.ExternalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal external id")
	}

	query := `INSERT INTO users (external_id, username, first_name, last_name, group_name, email, created_at, created_by)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(
		ctx,
		query,
		externalID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Group,
		user.Email,
		user.CreatedAt,
		user.CreatedBy,
	)
	if err != nil {
		return database.NewPersistenceError("insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return database.NewPersistenceError("insert user", err)
	}
	user.ID = id
	return nil
}

// Update stamps and writes the mutable fields of the user.
func (m *MySQLUserRepository) Update(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, m.db)
	m.stamper.Modified(ctx, user)

	query := `UPDATE users
			  SET username = ?, first_name = ?, last_name = ?, group_name = ?, email = ?,
			      updated_at = ?, updated_by = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Group,
		user.Email,
		user.UpdatedAt,
		user.UpdatedBy,
		user.ID,
	)
	if err != nil {
		return database.NewPersistenceError("update user", err)
	}
	return checkAffected(result, user.ID)
}

// Delete removes the user row.
func (m *MySQLUserRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return database.NewPersistenceError("delete user", err)
	}
	return checkAffected(result, id)
}
