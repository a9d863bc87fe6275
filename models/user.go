package models

import "time"

// Role values as the backend reports them.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserInfo is a user record as served by the backend. The username is the
// identity key; records are created and mutated server-side only.
type UserInfo struct {
	Username        string    `json:"username"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the record carries the admin role.
func (u *UserInfo) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUserRequest is the signup payload.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}

// CreateUserResponse is what the backend returns for a successful signup.
type CreateUserResponse struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UpdateUserRequest carries the editable fields. Empty fields are omitted so
// the backend treats the update as partial.
type UpdateUserRequest struct {
	FullName string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest is the credentials payload for /users/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
