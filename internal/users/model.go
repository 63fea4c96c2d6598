package users

import "time"

// Role values stored on users.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Picture     string    `json:"picture"`
	Role        string    `json:"role"`
	Deactivated bool      `json:"deactivated"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
