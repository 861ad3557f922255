// Package dto provides data transfer objects for the user HTTP layer.
package dto

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Group     string  `json:"group"`
	Email     *string `json:"email"`
}

// UpdateUserRequest is the body of PUT /users/{id}. The id comes from the path.
type UpdateUserRequest struct {
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Group     string  `json:"group"`
	Email     *string `json:"email"`
}
