// Package devseed populates a development database with a few users covering each navigation state.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/softwareconstruction240/autograder/internal/core"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	apperrors "github.com/softwareconstruction240/autograder/internal/errors"
)

// SeedUser is one development account.
type SeedUser struct {
	NetID     string
	FirstName string
	LastName  string
	Role      domainauth.Role
	RepoURL   string // empty leaves the user unregistered
}

// DefaultUsers returns an admin, a registered student, and an unregistered student.
// The admin matches the default dev auth identity.
func DefaultUsers() []SeedUser {
	return []SeedUser{
		{NetID: "dev-admin", FirstName: "Dev", LastName: "Admin", Role: domainauth.RoleAdmin},
		{
			NetID:     "cosmo",
			FirstName: "Cosmo",
			LastName:  "Cougar",
			Role:      domainauth.RoleStudent,
			RepoURL:   "https://github.com/cosmo/chess",
		},
		{NetID: "newbie", FirstName: "New", LastName: "Student", Role: domainauth.RoleStudent},
	}
}

// Result counts what a seeding run changed.
type Result struct {
	Created  int
	Existing int
	Repos    int
}

// Run creates each user that does not exist yet and assigns seeded repositories.
// Existing users keep their stored role and repository.
func Run(ctx context.Context, repo core.UserRepository, users []SeedUser, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var (
		res      Result
		failures int
	)
	for _, u := range users {
		created, err := seedUser(ctx, repo, u)
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed user", "net_id", u.NetID, "error", err)
			failures++
			continue
		}
		if !created {
			res.Existing++
			logger.InfoContext(ctx, "user already exists", "net_id", u.NetID)
			continue
		}
		res.Created++
		logger.InfoContext(ctx, "created user", "net_id", u.NetID, "role", u.Role)

		if u.RepoURL == "" {
			continue
		}
		if _, err := repo.SetRepoURL(ctx, core.SetRepoURLParams{NetID: u.NetID, RepoURL: u.RepoURL}); err != nil {
			logger.ErrorContext(ctx, "failed to set repo", "net_id", u.NetID, "error", err)
			failures++
			continue
		}
		res.Repos++
	}
	if failures > 0 {
		return res, fmt.Errorf("%d seed errors; check logs", failures)
	}
	return res, nil
}

func seedUser(ctx context.Context, repo core.UserRepository, u SeedUser) (bool, error) {
	_, err := repo.Create(ctx, &model.CreateUserRequest{
		NetID:     u.NetID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
