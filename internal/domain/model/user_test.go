package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
)

func strPtr(s string) *string { return &s }

func TestUser_IsFullyRegistered(t *testing.T) {
	tests := []struct {
		name string
		user *User
		want bool
	}{
		{name: "nil user", user: nil, want: false},
		{name: "student without repo", user: &User{Role: domainauth.RoleStudent}, want: false},
		{name: "student with blank repo", user: &User{Role: domainauth.RoleStudent, RepoURL: strPtr("  ")}, want: false},
		{
			name: "student with repo",
			user: &User{Role: domainauth.RoleStudent, RepoURL: strPtr("https://github.com/cosmo/chess")},
			want: true,
		},
		{name: "admin without repo", user: &User{Role: domainauth.RoleAdmin}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsFullyRegistered())
		})
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr string
	}{
		{name: "valid", in: "https://github.com/cosmo/chess", want: "https://github.com/cosmo/chess"},
		{name: "trims whitespace and slash", in: "  https://github.com/cosmo/chess/ ", want: "https://github.com/cosmo/chess"},
		{name: "empty", in: "   ", wantErr: "repo_url is required"},
		{name: "http rejected", in: "http://github.com/cosmo/chess", wantErr: "must use https"},
		{name: "ssh rejected", in: "git@github.com:cosmo/chess.git", wantErr: "must use https"},
		{name: "no path", in: "https://github.com", wantErr: "host and repository path"},
		{name: "credentials", in: "https://tok@github.com/cosmo/chess", wantErr: "credentials"},
		{name: "too long", in: "https://github.com/" + strings.Repeat("a", 255), wantErr: "cannot exceed 255"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRepoURL(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegisterRequest_ValidateNormalizes(t *testing.T) {
	req := RegisterRequest{RepoURL: " https://github.com/cosmo/chess/"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "https://github.com/cosmo/chess", req.RepoURL)
}

func TestAdminUpdateRequest_Validate(t *testing.T) {
	t.Run("no fields", func(t *testing.T) {
		req := AdminUpdateRequest{}
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one field")
	})

	t.Run("bad role", func(t *testing.T) {
		req := AdminUpdateRequest{Role: strPtr("TA")}
		err := req.Validate()
		require.Error(t, err)
		assert.Equal(t, "invalid role. must be one of: STUDENT, ADMIN", err.Error())
	})

	t.Run("role normalized", func(t *testing.T) {
		req := AdminUpdateRequest{Role: strPtr(" admin ")}
		require.NoError(t, req.Validate())
		role, ok := req.ParsedRole()
		require.True(t, ok)
		assert.Equal(t, domainauth.RoleAdmin, role)
	})

	t.Run("bad repo", func(t *testing.T) {
		req := AdminUpdateRequest{RepoURL: strPtr("ftp://x/y")}
		require.Error(t, req.Validate())
	})

	t.Run("long name", func(t *testing.T) {
		req := AdminUpdateRequest{FirstName: strPtr(strings.Repeat("x", 101))}
		require.Error(t, req.Validate())
	})
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{NetID: "cosmo", Role: domainauth.RoleStudent}
	require.NoError(t, req.Validate())

	req.NetID = " "
	require.Error(t, req.Validate())

	req = CreateUserRequest{NetID: "cosmo", Role: "GUEST"}
	require.Error(t, req.Validate())
}

func TestRepoHistoryFilter_Normalize(t *testing.T) {
	f := RepoHistoryFilter{NetID: " cosmo "}
	f.Normalize()
	assert.Equal(t, "cosmo", f.NetID)
	assert.Equal(t, defaultHistoryLimit, f.Limit)

	f = RepoHistoryFilter{Limit: 5000}
	f.Normalize()
	assert.Equal(t, maxHistoryLimit, f.Limit)
}
