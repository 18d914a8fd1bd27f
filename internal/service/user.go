package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/softwareconstruction240/autograder/internal/core"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	apperrors "github.com/softwareconstruction240/autograder/internal/errors"
	"github.com/softwareconstruction240/autograder/internal/ports"
)

var _ ports.UserDirectory = (*UserService)(nil)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Repo   core.UserRepository
	Logger *slog.Logger // optional
}

// UserService owns user records: registration, admin management, and the
// per-request navigation state derived from a session.
type UserService struct {
	repo   core.UserRepository
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Repo == nil {
		panic("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: opts.Repo, logger: logger.With("component", "user_service")}
}

// Me returns the user record for netID.
func (s *UserService) Me(ctx context.Context, netID string) (*model.User, error) {
	if strings.TrimSpace(netID) == "" {
		return nil, apperrors.Validation("net_id is required")
	}
	user, err := s.repo.GetByNetID(ctx, netID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// StateFor builds the navigation state for a request. A nil session is anonymous.
// A session whose user record cannot be loaded is also treated as anonymous so
// guards always receive a usable state.
func (s *UserService) StateFor(ctx context.Context, sess *domainauth.Session) domainauth.State {
	if sess == nil || sess.UserID == "" {
		return domainauth.Anonymous()
	}

	user, err := s.repo.GetByNetID(ctx, sess.UserID)
	if err != nil {
		level := slog.LevelError
		if apperrors.IsNotFound(err) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "load user for session failed",
			"net_id", sess.UserID,
			"error", err,
		)
		return domainauth.Anonymous()
	}

	return domainauth.State{
		LoggedIn:        true,
		FullyRegistered: user.IsFullyRegistered(),
		User:            &domainauth.StateUser{NetID: user.NetID, Role: user.Role},
	}
}

// Register sets the caller's own repository URL.
// The URL must be https and unclaimed by any other user.
func (s *UserService) Register(ctx context.Context, netID string, req model.RegisterRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.ValidationField("repo_url", err.Error())
	}
	if err := s.ensureUnclaimed(ctx, req.RepoURL, netID); err != nil {
		return nil, err
	}

	user, err := s.repo.SetRepoURL(ctx, core.SetRepoURLParams{NetID: netID, RepoURL: req.RepoURL})
	if err != nil {
		return nil, fmt.Errorf("register repo: %w", err)
	}
	s.logger.InfoContext(ctx, "repo registered", "net_id", netID, "repo_url", user.RepoURL)
	return user, nil
}

// AdminUpdate applies an admin's changes to another user's profile, role, or repository.
// Repository changes are recorded with the admin's netId. Admins cannot demote themselves.
func (s *UserService) AdminUpdate(
	ctx context.Context,
	adminNetID, netID string,
	req model.AdminUpdateRequest,
) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	role, hasRole := req.ParsedRole()
	if hasRole && role != domainauth.RoleAdmin && strings.EqualFold(adminNetID, netID) {
		return nil, apperrors.Forbidden("admins cannot remove their own admin role")
	}

	user, err := s.repo.GetByNetID(ctx, netID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.FirstName != nil || req.LastName != nil || hasRole {
		params := core.UpdateProfileParams{FirstName: req.FirstName, LastName: req.LastName}
		if hasRole {
			params.Role = &role
		}
		user, err = s.repo.UpdateProfile(ctx, netID, params)
		if err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}

	if req.RepoURL != nil && !sameRepo(user, *req.RepoURL) {
		if err := s.ensureUnclaimed(ctx, *req.RepoURL, netID); err != nil {
			return nil, err
		}
		user, err = s.repo.SetRepoURL(ctx, core.SetRepoURLParams{
			NetID:      netID,
			RepoURL:    *req.RepoURL,
			AdminNetID: adminNetID,
		})
		if err != nil {
			return nil, fmt.Errorf("set repo url: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "user updated by admin", "admin_net_id", adminNetID, "net_id", netID)
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// RepoHistory returns repository changes matching filter, newest first.
func (s *UserService) RepoHistory(ctx context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error) {
	filter.Normalize()
	history, err := s.repo.RepoHistory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("repo history: %w", err)
	}
	return history, nil
}

// EnsureUser provisions a user on first login and returns the role they hold.
// Existing users keep their stored role; mapped only applies to new users.
func (s *UserService) EnsureUser(
	ctx context.Context,
	identity domainauth.Identity,
	mapped domainauth.Role,
) (domainauth.Role, error) {
	user, err := s.repo.GetByNetID(ctx, identity.UserID)
	if err == nil {
		return user.Role, nil
	}
	if !apperrors.IsNotFound(err) {
		return "", fmt.Errorf("get user: %w", err)
	}

	user, err = s.repo.Create(ctx, &model.CreateUserRequest{
		NetID:     identity.UserID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Role:      mapped,
	})
	if apperrors.IsConflict(err) {
		// A concurrent first login won the insert.
		user, err = s.repo.GetByNetID(ctx, identity.UserID)
	}
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user provisioned", "net_id", user.NetID, "role", user.Role)
	return user.Role, nil
}

func sameRepo(user *model.User, repoURL string) bool {
	return user != nil && user.RepoURL != nil && *user.RepoURL == repoURL
}

func (s *UserService) ensureUnclaimed(ctx context.Context, repoURL, netID string) error {
	claimed, err := s.repo.RepoURLClaimed(ctx, repoURL, netID)
	if err != nil {
		return fmt.Errorf("check repo url: %w", err)
	}
	if claimed {
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: "This repository is already claimed by another user.",
			Field:   "repo_url",
		}
	}
	return nil
}
