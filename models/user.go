package models

import (
	"time"
)

// RoleAdmin is the role granted to the built-in administrator
const RoleAdmin = "ADMIN"

// User represents a stored account that can log in.
// PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Roles        []string  `json:"roles" db:"roles"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "principals"
}

// NewUser creates a new User instance
func NewUser(username, passwordHash string, roles ...string) *User {
	now := time.Now()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Roles:        append([]string(nil), roles...),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Principal returns the identity and roles of the user, without credentials
func (u *User) Principal() *Principal {
	return NewPrincipal(u.Username, u.Roles...)
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Principal().HasRole(RoleAdmin)
}
