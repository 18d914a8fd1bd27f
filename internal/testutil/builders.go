// Package testutil provides testing utilities and helpers for the autograder.
package testutil

import (
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
)

// UserBuilder provides a fluent interface for building users in tests.
type UserBuilder struct {
	user model.User
}

// NewUser creates a UserBuilder for an unregistered student.
func NewUser(netID string) *UserBuilder {
	return &UserBuilder{user: model.User{
		NetID:     netID,
		FirstName: "Test",
		LastName:  "Student",
		Role:      domainauth.RoleStudent,
		CreatedAt: TestTime(),
		UpdatedAt: TestTime(),
	}}
}

// WithRepo sets the repository URL.
func (b *UserBuilder) WithRepo(repoURL string) *UserBuilder {
	b.user.RepoURL = &repoURL
	return b
}

// Admin makes the user an admin.
func (b *UserBuilder) Admin() *UserBuilder {
	b.user.Role = domainauth.RoleAdmin
	return b
}

// Build returns a pointer to a copy of the built user.
func (b *UserBuilder) Build() *model.User {
	u := b.user
	return &u
}
