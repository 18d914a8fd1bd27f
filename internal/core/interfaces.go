package core

import (
	"context"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on the data package.

// UserRepository defines the interface for user and repository-history persistence.
type UserRepository interface {
	Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetByNetID(ctx context.Context, netID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	UpdateProfile(ctx context.Context, netID string, params UpdateProfileParams) (*model.User, error)
	// SetRepoURL changes the user's repository and appends a RepoUpdate in one transaction.
	SetRepoURL(ctx context.Context, params SetRepoURLParams) (*model.User, error)
	// RepoURLClaimed reports whether a user other than exceptNetID holds repoURL.
	RepoURLClaimed(ctx context.Context, repoURL, exceptNetID string) (bool, error)
	RepoHistory(ctx context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error)
}

// UpdateProfileParams groups the optional profile fields an admin may change.
type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
	Role      *domainauth.Role
}

// SetRepoURLParams groups parameters for UserRepository.SetRepoURL.
// AdminNetID is empty when the user changed their own repository.
type SetRepoURLParams struct {
	NetID      string
	RepoURL    string
	AdminNetID string
}
