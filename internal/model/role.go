package model

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the access level of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
)

// DefaultRole is assigned on self-registration.
const DefaultRole = RoleCustomer

// Roles returns every valid role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSeller, RoleCustomer}
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts only the exact lower-case role names.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// Actor is the authenticated caller, as carried by a verified access token.
type Actor struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// HasRole reports whether the actor holds one of roles.
func (a Actor) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
