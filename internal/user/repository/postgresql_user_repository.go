package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/useradmin/internal/audit"
	"github.com/allisson/useradmin/internal/database"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// PostgreSQLUserRepository implements User persistence for PostgreSQL databases.
type PostgreSQLUserRepository struct {
	reader
	stamper *audit.Stamper
}

// NewPostgreSQLUserRepository creates a new PostgreSQL User repository instance.
func NewPostgreSQLUserRepository(db *sql.DB, stamper *audit.Stamper) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		reader:  reader{db: db, postgres: true},
		stamper: stamper,
	}
}

// Create stamps and inserts the user, then stores the generated id on it.
func (p *PostgreSQLUserRepository) Create(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, p.db)
	p.stamper.Created(ctx, user)

	query := `INSERT INTO users (external_id, username, first_name, last_name, group_name, email, created_at, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`

	err := querier.QueryRowContext(
		ctx,
		query,
		user.ExternalID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Group,
		user.Email,
		user.CreatedAt,
		user.CreatedBy,
	).Scan(&user.ID)
	return database.NewPersistenceError("insert user", err)
}

// Update stamps and writes the mutable fields of the user.
func (p *PostgreSQLUserRepository) Update(ctx context.Context, user *userDomain.User) error {
	querier := database.GetTx(ctx, p.db)
	p.stamper.Modified(ctx, user)

	query := `UPDATE users
			  SET username = $1, first_name = $2, last_name = $3, group_name = $4, email = $5,
			      updated_at = $6, updated_by = $7
			  WHERE id = $8`

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
func (p *PostgreSQLUserRepository) Delete(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return database.NewPersistenceError("delete user", err)
	}
	return checkAffected(result, id)
}
