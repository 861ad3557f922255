package domain

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// UserSpec describes a read over the users table. Repositories apply it in a
// fixed order: filters, then ordering, then paging.
type UserSpec struct {
	ID         *int64
	IDs        []int64
	Username   *string
	ExternalID *uuid.UUID

	// Groups restricts the result to users in any of the listed groups.
	Groups []string
	// UsernameContains is a case-sensitive substring match on the username.
	UsernameContains string

	// OrderByIDDesc sorts newest users first.
	OrderByIDDesc bool
	Page          int
	PageSize      int

	// ReadOnly marks specs whose results are never written back.
	ReadOnly bool
}

// Paged reports whether a page window is set.
func (s UserSpec) Paged() bool {
	return s.Page > 0 && s.PageSize > 0
}

// Offset returns the number of rows to skip, saturating at math.MaxInt.
func (s UserSpec) Offset() int {
	if !s.Paged() {
		return 0
	}
	if s.Page-1 > math.MaxInt/s.PageSize {
		return math.MaxInt
	}
	return (s.Page - 1) * s.PageSize
}

// ByID selects a single user for update.
func ByID(id int64) UserSpec {
	return UserSpec{ID: &id}
}

// ByIDReadOnly selects a single user that will not be modified.
func ByIDReadOnly(id int64) UserSpec {
	return UserSpec{ID: &id, ReadOnly: true}
}

// ByUsername selects a user by exact username.
func ByUsername(username string) UserSpec {
	return UserSpec{Username: &username, ReadOnly: true}
}

// ByExternalID selects a user by identity provider id.
func ByExternalID(externalID uuid.UUID) UserSpec {
	return UserSpec{ExternalID: &externalID, ReadOnly: true}
}

// ByIDs selects every user whose id is in ids.
func ByIDs(ids []int64) UserSpec {
	return UserSpec{IDs: ids, ReadOnly: true}
}

// Filter selects users by group membership and username substring. Empty
// groups and a blank username disable the matching filter.
func Filter(groups []string, username string) UserSpec {
	spec := UserSpec{Groups: groups, ReadOnly: true}
	if strings.TrimSpace(username) != "" {
		spec.UsernameContains = username
	}
	return spec
}

// FilterWithPagination is Filter ordered by descending id and windowed to one page.
// Paging is skipped unless both page and pageSize are positive.
func FilterWithPagination(page, pageSize int, groups []string, username string) UserSpec {
	spec := Filter(groups, username)
	spec.OrderByIDDesc = true
	spec.Page = page
	spec.PageSize = pageSize
	return spec
}
