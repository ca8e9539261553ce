// Package users manages dashboard accounts and their plant assignments.
package users

import "errors"

// Roles and statuses assignable to an account.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("email already registered")
	ErrInvalidRole = errors.New("unknown role")
)

// User is one dashboard account. Plants lists the plant codes the account
// may see documents for.
type User struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Status string   `json:"status"`
	Plants []string `json:"plants"`
}

// ValidRole reports whether role is known.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
