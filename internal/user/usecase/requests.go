package usecase

// CreateUserCommand creates a user locally and in the identity provider.
type CreateUserCommand struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Group     string  `json:"group"`
	Email     *string `json:"email"`
}

// UpdateUserCommand replaces the mutable fields of a user.
type UpdateUserCommand struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Group     string  `json:"group"`
	Email     *string `json:"email"`
}

// DeleteUserCommand removes a user from both stores.
type DeleteUserCommand struct {
	ID int64 `json:"id"`
}

// ResetUserPasswordCommand sets the default temporary password on a user.
type ResetUserPasswordCommand struct {
	ID int64 `json:"id"`
}

// GetUserByIDQuery loads a single user.
type GetUserByIDQuery struct {
	ID int64 `json:"id"`
}

// GetUsersQuery lists one page of users, newest first. A non-positive Page
// becomes pagination.DefaultPage and a non-positive PageSize becomes
// pagination.DefaultPageSize, so the result is always windowed; there is no
// unpaginated listing.
type GetUsersQuery struct {
	Page     int      `json:"page"`
	PageSize int      `json:"pageSize"`
	Groups   []string `json:"groups"`
	Username string   `json:"username"`
}
