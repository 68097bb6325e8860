package models

import (
	"time"
)

// Roles assignable to a user. There is no wider role system; admins are
// provisioned at startup, everyone else registers as a regular user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            string
	Email         string // stored lower-cased; uniqueness is case-insensitive
	PasswordHash  string
	Name          string
	EmailVerified bool // flips true exactly once, never reverts
	Role          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
