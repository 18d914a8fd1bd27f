package auth

// Package auth contains domain-level types for authentication, sessions and
// the per-request navigation state. It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an application's authorization role.
// The string form matches what is persisted in the users table.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole normalizes a role string (case-insensitive) and reports whether it is supported.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if role.Valid() {
		return role, true
	}
	return "", false
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // netId
	FirstName string
	LastName  string
	Email     string
	Groups    []string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsAdmin returns true if the session role is admin.
func (s Session) IsAdmin() bool { return s.Role == RoleAdmin }

// StateUser is the slice of the user record that navigation decisions read.
type StateUser struct {
	NetID string `json:"net_id"`
	Role  Role   `json:"role"`
}

// State is a read-only snapshot of the caller's login, registration and role status.
// The zero value is a logged-out visitor.
type State struct {
	LoggedIn        bool       `json:"logged_in"`
	FullyRegistered bool       `json:"fully_registered"`
	User            *StateUser `json:"user"`
}

// IsAdmin reports whether the snapshot carries a user with the admin role.
// An absent user is never an admin.
func (s State) IsAdmin() bool {
	return s.User != nil && s.User.Role == RoleAdmin
}

// Anonymous returns the state of a visitor without a session.
func Anonymous() State { return State{} }
