// Package repository implements user persistence for PostgreSQL and MySQL.
package repository

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	userDomain "github.com/allisson/useradmin/internal/user/domain"
)

const userColumns = `id, external_id, username, first_name, last_name, group_name, email, created_at, created_by, updated_at, updated_by`

// sqlBuilder collects bind arguments and renders the placeholder style of the driver.
type sqlBuilder struct {
	postgres bool
	args     []any
}

func (b *sqlBuilder) bind(v any) string {
	b.args = append(b.args, v)
	if b.postgres {
		return "$" + strconv.Itoa(len(b.args))
	}
	return "?"
}

func (b *sqlBuilder) bindUUID(id uuid.UUID) string {
	if b.postgres {
		return b.bind(id)
	}
	raw, _ := id.MarshalBinary()
	return b.bind(raw)
}

func (b *sqlBuilder) inStrings(column string, values []string) string {
	if b.postgres {
		return column + " = ANY(" + b.bind(pq.Array(values)) + ")"
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}
	return column + " IN (" + strings.Join(placeholders, ", ") + ")"
}

func (b *sqlBuilder) inInt64s(column string, values []int64) string {
	if b.postgres {
		return column + " = ANY(" + b.bind(pq.Array(values)) + ")"
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = b.bind(v)
	}
	return column + " IN (" + strings.Join(placeholders, ", ") + ")"
}

// where renders the filters of spec joined with AND.
func (b *sqlBuilder) where(spec userDomain.UserSpec) string {
	var conds []string

	if spec.ID != nil {
		conds = append(conds, "id = "+b.bind(*spec.ID))
	}
	if spec.IDs != nil {
		if len(spec.IDs) == 0 {
			conds = append(conds, "1 = 0")
		} else {
			conds = append(conds, b.inInt64s("id", spec.IDs))
		}
	}
	if spec.Username != nil {
		conds = append(conds, "username = "+b.bind(*spec.Username))
	}
	if spec.ExternalID != nil {
		conds = append(conds, "external_id = "+b.bindUUID(*spec.ExternalID))
	}
	if len(spec.Groups) > 0 {
		conds = append(conds, b.inStrings("group_name", spec.Groups))
	}
	if spec.UsernameContains != "" {
		conds = append(conds, "username LIKE "+b.bind("%"+escapeLike(spec.UsernameContains)+"%"))
	}

	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// selectQuery renders filters, ordering and paging in that order.
func (b *sqlBuilder) selectQuery(spec userDomain.UserSpec, lock bool) string {
	var q strings.Builder
	q.WriteString("SELECT " + userColumns + " FROM users")
	q.WriteString(b.where(spec))
	if spec.OrderByIDDesc {
		q.WriteString(" ORDER BY id DESC")
	}
	if spec.Paged() {
		q.WriteString(" LIMIT " + b.bind(spec.PageSize))
		q.WriteString(" OFFSET " + b.bind(spec.Offset()))
	}
	if lock {
		q.WriteString(" FOR UPDATE")
	}
	return q.String()
}

func (b *sqlBuilder) countQuery(spec userDomain.UserSpec) string {
	return "SELECT COUNT(*) FROM users" + b.where(spec)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*userDomain.User, error) {
	var (
		user      userDomain.User
		email     sql.NullString
		updatedAt sql.NullTime
		updatedBy sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Group,
		&email,
		&user.CreatedAt,
		&user.CreatedBy,
		&updatedAt,
		&updatedBy,
	)
	if err != nil {
		return nil, err
	}

	if email.Valid {
		user.Email = &email.String
	}
	if updatedAt.Valid {
		user.UpdatedAt = &updatedAt.Time
	}
	if updatedBy.Valid {
		user.UpdatedBy = &updatedBy.String
	}
	return &user, nil
}
