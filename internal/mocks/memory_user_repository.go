package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/softwareconstruction240/autograder/internal/core"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	apperrors "github.com/softwareconstruction240/autograder/internal/errors"
)

var _ core.UserRepository = (*MemoryUserRepository)(nil)

// MemoryUserRepository is an in-memory core.UserRepository for handler and service tests
// that want real behavior without a database.
type MemoryUserRepository struct {
	mu      sync.Mutex
	users   map[string]*model.User
	history []*model.RepoUpdate
	now     func() time.Time
}

// NewMemoryUserRepository returns a repository seeded with users.
func NewMemoryUserRepository(users ...*model.User) *MemoryUserRepository {
	r := &MemoryUserRepository{
		users: make(map[string]*model.User, len(users)),
		now:   time.Now,
	}
	for _, u := range users {
		cp := *u
		r.users[u.NetID] = &cp
	}
	return r
}

func (r *MemoryUserRepository) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[req.NetID]; ok {
		return nil, apperrors.Conflictf("user %q already exists", req.NetID)
	}
	now := r.now()
	u := &model.User{
		NetID:        req.NetID,
		CanvasUserID: req.CanvasUserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[u.NetID] = u
	return copyUser(u), nil
}

func (r *MemoryUserRepository) GetByNetID(_ context.Context, netID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[netID]
	if !ok {
		return nil, apperrors.NotFoundf("user %q not found", netID)
	}
	return copyUser(u), nil
}

// List orders users the way the SQL repository does: by role, then name.
func (r *MemoryUserRepository) List(_ context.Context) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Role != b.Role {
			return a.Role < b.Role
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.NetID < b.NetID
	})
	return out, nil
}

func (r *MemoryUserRepository) UpdateProfile(
	_ context.Context,
	netID string,
	params core.UpdateProfileParams,
) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[netID]
	if !ok {
		return nil, apperrors.NotFoundf("user %q not found", netID)
	}
	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.Role != nil {
		u.Role = *params.Role
	}
	u.UpdatedAt = r.now()
	return copyUser(u), nil
}

func (r *MemoryUserRepository) SetRepoURL(_ context.Context, params core.SetRepoURLParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[params.NetID]
	if !ok {
		return nil, apperrors.NotFoundf("user %q not found", params.NetID)
	}
	for _, other := range r.users {
		if other.NetID != params.NetID && other.RepoURL != nil && *other.RepoURL == params.RepoURL {
			return nil, apperrors.Conflictf("repo_url already claimed")
		}
	}
	now := r.now()
	repo := params.RepoURL
	u.RepoURL = &repo
	u.UpdatedAt = now

	update := &model.RepoUpdate{
		ID:        int64(len(r.history) + 1),
		NetID:     params.NetID,
		RepoURL:   params.RepoURL,
		CreatedAt: now,
	}
	if params.AdminNetID != "" {
		admin := params.AdminNetID
		update.AdminNetID = &admin
	}
	r.history = append(r.history, update)
	return copyUser(u), nil
}

func (r *MemoryUserRepository) RepoURLClaimed(_ context.Context, repoURL, exceptNetID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.NetID != exceptNetID && u.RepoURL != nil && *u.RepoURL == repoURL {
			return true, nil
		}
	}
	return false, nil
}

// RepoHistory returns matching updates newest first.
func (r *MemoryUserRepository) RepoHistory(_ context.Context, filter model.RepoHistoryFilter) ([]*model.RepoUpdate, error) {
	filter.Normalize()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RepoUpdate
	for i := len(r.history) - 1; i >= 0 && len(out) < filter.Limit; i-- {
		h := r.history[i]
		if filter.NetID != "" && !strings.EqualFold(h.NetID, filter.NetID) {
			continue
		}
		if filter.RepoURL != "" && h.RepoURL != filter.RepoURL {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

func copyUser(u *model.User) *model.User {
	cp := *u
	if u.RepoURL != nil {
		repo := *u.RepoURL
		cp.RepoURL = &repo
	}
	return &cp
}
