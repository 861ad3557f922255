package usecase

import userDomain "github.com/allisson/useradmin/internal/user/domain"

// UserDTO is the public view of a user.
type UserDTO struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Group     string  `json:"group"`
	Email     *string `json:"email"`
}

// FromUser maps the aggregate to its DTO.
func FromUser(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Group:     u.Group,
		Email:     u.Email,
	}
}
