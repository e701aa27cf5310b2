package models

import "slices"

// UserStatus is the account state reported by the backend.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Registration is the register request body. The backend validates it.
type Registration struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// User is the account record returned by login, register and me.
// Password is always null on the wire.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Password  *string    `json:"password"`
	Email     string     `json:"email"`
	FullName  string     `json:"fullName"`
	Status    UserStatus `json:"status"`
	Roles     []string   `json:"roles"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// HasRole reports whether role is among the user's roles. Order is irrelevant.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// IsActive reports whether the account status is ACTIVE.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
