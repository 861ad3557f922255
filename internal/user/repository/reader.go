package repository

import (
	"context"
	"database/sql"

	"github.com/allisson/useradmin/internal/database"
	apperrors "github.com/allisson/useradmin/internal/errors"
	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

// reader evaluates a domain.UserSpec against either driver.
type reader struct {
	db       *sql.DB
	postgres bool
}

func (r *reader) builder() *sqlBuilder {
	return &sqlBuilder{postgres: r.postgres}
}

// FirstOrDefault returns the first user matching spec, or nil when none does.
// Writable specs lock the row when called inside a transaction.
func (r *reader) FirstOrDefault(ctx context.Context, spec userDomain.UserSpec) (*userDomain.User, error) {
	querier := database.GetTx(ctx, r.db)
	b := r.builder()

	spec.Page, spec.PageSize = 1, 1
	query := b.selectQuery(spec, !spec.ReadOnly && database.InTx(ctx))

	user, err := scanUser(querier.QueryRowContext(ctx, query, b.args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}
	return user, nil
}

// List returns every user matching spec.
func (r *reader) List(ctx context.Context, spec userDomain.UserSpec) ([]*userDomain.User, error) {
	querier := database.GetTx(ctx, r.db)
	b := r.builder()
	query := b.selectQuery(spec, false)

	rows, err := querier.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*userDomain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate users")
	}

	return users, nil
}

// Count returns the number of users matching the filters of spec. Ordering and paging are ignored.
func (r *reader) Count(ctx context.Context, spec userDomain.UserSpec) (int64, error) {
	querier := database.GetTx(ctx, r.db)
	b := r.builder()
	query := b.countQuery(spec)

	var count int64
	if err := querier.QueryRowContext(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count users")
	}
	return count, nil
}
