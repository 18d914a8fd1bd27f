// Package model defines the core data types used throughout the autograder front door.
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

const (
	// maxRepoURLLen is the maximum allowed length for a repository URL in characters.
	maxRepoURLLen = 255
	// maxNameLen bounds first and last names.
	maxNameLen = 100
)

// User is a person known to the autograder, keyed by their netId.
type User struct {
	NetID        string          `json:"net_id"         db:"net_id"`
	CanvasUserID int             `json:"canvas_user_id" db:"canvas_user_id"`
	FirstName    string          `json:"first_name"     db:"first_name"`
	LastName     string          `json:"last_name"      db:"last_name"`
	RepoURL      *string         `json:"repo_url"       db:"repo_url"`
	Role         domainauth.Role `json:"role"           db:"role"`
	CreatedAt    time.Time       `json:"created_at"     db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"     db:"updated_at"`
}

// HasRepo reports whether the user has a non-empty repository URL on file.
func (u *User) HasRepo() bool {
	return u != nil && u.RepoURL != nil && strings.TrimSpace(*u.RepoURL) != ""
}

// IsFullyRegistered reports whether the user may use the grading pages.
// Admins never need a repository.
func (u *User) IsFullyRegistered() bool {
	if u == nil {
		return false
	}
	return u.Role == domainauth.RoleAdmin || u.HasRepo()
}

// CreateUserRequest provisions a user record on first login.
type CreateUserRequest struct {
	NetID        string          `json:"net_id"`
	CanvasUserID int             `json:"canvas_user_id,omitempty"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Role         domainauth.Role `json:"role"`
}

// Validate validates the CreateUserRequest fields.
func (r *CreateUserRequest) Validate() error {
	if strings.TrimSpace(r.NetID) == "" {
		return errors.New("net_id is required and cannot be empty")
	}
	if utf8.RuneCountInString(r.FirstName) > maxNameLen || utf8.RuneCountInString(r.LastName) > maxNameLen {
		return errors.New("names cannot exceed 100 characters")
	}
	if !r.Role.Valid() {
		return errors.New("invalid role. must be one of: STUDENT, ADMIN")
	}
	return nil
}

// RegisterRequest is submitted by a student to claim their repository.
type RegisterRequest struct {
	RepoURL string `json:"repo_url"`
}

// Validate normalizes and validates the repository URL.
func (r *RegisterRequest) Validate() error {
	normalized, err := NormalizeRepoURL(r.RepoURL)
	if err != nil {
		return err
	}
	r.RepoURL = normalized
	return nil
}

// AdminUpdateRequest lets an admin change another user's role or repository.
// Nil fields are left untouched.
type AdminUpdateRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	RepoURL   *string `json:"repo_url,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// HasUpdates reports whether any field is set.
func (r *AdminUpdateRequest) HasUpdates() bool {
	return r.FirstName != nil || r.LastName != nil || r.RepoURL != nil || r.Role != nil
}

// Validate checks the set fields and normalizes the role and repository URL in place.
func (r *AdminUpdateRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.FirstName != nil && utf8.RuneCountInString(*r.FirstName) > maxNameLen {
		return errors.New("first_name cannot exceed 100 characters")
	}
	if r.LastName != nil && utf8.RuneCountInString(*r.LastName) > maxNameLen {
		return errors.New("last_name cannot exceed 100 characters")
	}
	if r.Role != nil {
		role, ok := domainauth.ParseRole(*r.Role)
		if !ok {
			return errors.New("invalid role. must be one of: STUDENT, ADMIN")
		}
		s := string(role)
		r.Role = &s
	}
	if r.RepoURL != nil {
		normalized, err := NormalizeRepoURL(*r.RepoURL)
		if err != nil {
			return err
		}
		r.RepoURL = &normalized
	}
	return nil
}

// ParsedRole returns the role to apply, if any. Call after Validate.
func (r *AdminUpdateRequest) ParsedRole() (domainauth.Role, bool) {
	if r.Role == nil {
		return "", false
	}
	return domainauth.ParseRole(*r.Role)
}

// NormalizeRepoURL trims the URL and strips a trailing slash. The result must be an
// absolute https URL with a host and a path, no longer than 255 characters.
func NormalizeRepoURL(raw string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(raw), "/")
	if s == "" {
		return "", errors.New("repo_url is required and cannot be empty")
	}
	if utf8.RuneCountInString(s) > maxRepoURLLen {
		return "", errors.New("repo_url cannot exceed 255 characters")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", errors.New("repo_url must be a valid URL")
	}
	if u.Scheme != "https" {
		return "", errors.New("repo_url must use https")
	}
	if u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return "", errors.New("repo_url must include a host and repository path")
	}
	if u.User != nil {
		return "", errors.New("repo_url must not contain credentials")
	}
	return s, nil
}

// RepoUpdate records a change to a user's repository URL.
// AdminNetID is set when an admin made the change on the user's behalf.
type RepoUpdate struct {
	ID         int64     `json:"id"           db:"id"`
	NetID      string    `json:"net_id"       db:"net_id"`
	RepoURL    string    `json:"repo_url"     db:"repo_url"`
	AdminNetID *string   `json:"admin_net_id" db:"admin_net_id"`
	CreatedAt  time.Time `json:"created_at"   db:"created_at"`
}

// RepoHistoryFilter narrows repo update history. Empty fields match everything.
type RepoHistoryFilter struct {
	NetID   string
	RepoURL string
	Limit   int
}

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Normalize applies the default and maximum limit.
func (f *RepoHistoryFilter) Normalize() {
	f.NetID = strings.TrimSpace(f.NetID)
	f.RepoURL = strings.TrimSpace(f.RepoURL)
	if f.Limit <= 0 {
		f.Limit = defaultHistoryLimit
	}
	if f.Limit > maxHistoryLimit {
		f.Limit = maxHistoryLimit
	}
}
