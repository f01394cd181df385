// Package models defines the persistent data structures of the blog and
// the lifecycle rules they carry: audit metadata, soft deletion, and the
// category tree invariants.
package models

import "fmt"

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAuthor Role = "author"
	RoleReader Role = "reader"
)

// User represents a blog account.
type User struct {
	Entity

	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize the hash
	DisplayName  string `json:"display_name"`
	Bio          string `json:"bio"`
	Role         Role   `json:"role"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanPublish returns true for roles allowed to author posts.
func (u *User) CanPublish() bool {
	return u.Role == RoleAdmin || u.Role == RoleAuthor
}

// String renders the user without its password hash.
func (u *User) String() string {
	return fmt.Sprintf("User{email=%s role=%s %s}", u.Email, u.Role, u.Entity.String())
}
