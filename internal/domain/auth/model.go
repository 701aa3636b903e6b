// Package auth provides the user/role model consumed by authorization scoping.
package auth

import (
	"time"

	"stockops/internal/core/id"
)

// User represents a system user.
type User struct {
	ID        id.ID     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Roles directly assigned to the user. Parent roles are resolved
	// through AllRoles, not stored here.
	Roles []Role `db:"-" json:"roles,omitempty"`
}

// NewUser creates a new user.
func NewUser(username string) *User {
	now := time.Now().UTC()
	return &User{
		ID:        id.New(),
		Username:  username,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AllRoles returns the user's full role set with parent roles
// (transitively) included.
func (u *User) AllRoles() []Role {
	return ExpandRoles(u.Roles)
}

// HasRole checks if the expanded role set contains a role with the given code.
func (u *User) HasRole(roleCode string) bool {
	for _, r := range u.AllRoles() {
		if r.Code == roleCode {
			return true
		}
	}
	return false
}

// Role represents a user role. Roles form a hierarchy through Parent;
// membership in a role implies membership in all its ancestors.
type Role struct {
	ID        id.ID     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	IsSystem  bool      `db:"is_system" json:"isSystem"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	// Parent is the role this role inherits from, nil for top-level roles.
	Parent *Role `db:"-" json:"parent,omitempty"`
}

// NewRole creates a new role.
func NewRole(code, name string) *Role {
	now := time.Now().UTC()
	return &Role{
		ID:        id.New(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
