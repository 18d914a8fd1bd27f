package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	"github.com/softwareconstruction240/autograder/internal/navigation"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestAPI_Me(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/api/me")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authentication_required", decode[errorBody](t, rec.Body.Bytes()).Error)

	rec = app.do(http.MethodGet, "/api/me", withCookie(app.login(t, "ada")))
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[meResponse](t, rec.Body.Bytes())
	require.NotNil(t, me.User)
	assert.Equal(t, "ada", me.User.NetID)
	assert.True(t, me.State.FullyRegistered)
}

func TestAPI_SetRepo(t *testing.T) {
	app := newNavigationApp(t)
	cookie := app.login(t, "cosmo")

	rec := app.do(http.MethodPatch, "/api/me/repo", withCookie(cookie), withJSON(`{"repo_url":"https://github.com/cosmo/chess/"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[model.User](t, rec.Body.Bytes())
	require.NotNil(t, user.RepoURL)
	assert.Equal(t, "https://github.com/cosmo/chess", *user.RepoURL)

	rec = app.do(http.MethodPatch, "/api/me/repo", withCookie(cookie), withJSON(`{"repo_url":"`+registeredRepo+`"}`))
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decode[errorBody](t, rec.Body.Bytes())
	assert.Equal(t, "conflict", body.Error)
	assert.Equal(t, "repo_url", body.Field)

	rec = app.do(http.MethodPatch, "/api/me/repo", withCookie(cookie), withJSON(`{"repo":"x"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Navigation(t *testing.T) {
	app := newNavigationApp(t)

	tests := []struct {
		name     string
		target   string
		cookie   *http.Cookie
		route    string
		location string
		hops     int
	}{
		{"anonymous home keeps query", "/api/navigation?route=home&error=x", nil, navigation.RouteLogin, "/login?error=x", 1},
		{"default route", "/api/navigation", nil, navigation.RouteLogin, "/login", 1},
		{"by path", "/api/navigation?route=/help", nil, navigation.RouteHelp, "/help", 0},
		{"unregistered", "/api/navigation?route=home", app.login(t, "cosmo"), navigation.RouteRegister, "/register", 1},
		{"admin home", "/api/navigation?route=home", app.login(t, "prof"), navigation.RouteAdmin, "/admin", 1},
		{"student admin", "/api/navigation?route=admin", app.login(t, "ada"), navigation.RouteHome, "/", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.target, withCookie(tt.cookie))
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[navigationResponse](t, rec.Body.Bytes())
			assert.Equal(t, tt.route, resp.Route)
			assert.Equal(t, tt.location, resp.Location)
			assert.Len(t, resp.Hops, tt.hops)
		})
	}

	rec := app.do(http.MethodGet, "/api/navigation?route=grades")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_route", decode[errorBody](t, rec.Body.Bytes()).Error)
}

func TestAPI_AdminEndpoints(t *testing.T) {
	app := newNavigationApp(t)
	admin := app.login(t, "prof")

	t.Run("students are forbidden", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/admin/users", withCookie(app.login(t, "ada")))
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient_permissions", decode[errorBody](t, rec.Body.Bytes()).Error)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/admin/users")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("list users", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/admin/users", withCookie(admin))
		require.Equal(t, http.StatusOK, rec.Code)
		users := decode[[]model.User](t, rec.Body.Bytes())
		assert.Len(t, users, 3)
	})

	t.Run("update and history", func(t *testing.T) {
		rec := app.do(http.MethodPatch, "/api/admin/users/cosmo", withCookie(admin),
			withJSON(`{"role":"admin","repo_url":"https://github.com/cosmo/chess"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		user := decode[model.User](t, rec.Body.Bytes())
		assert.Equal(t, domainauth.RoleAdmin, user.Role)

		rec = app.do(http.MethodGet, "/api/admin/repo-history?netId=cosmo&limit=5", withCookie(admin))
		require.Equal(t, http.StatusOK, rec.Code)
		history := decode[[]model.RepoUpdate](t, rec.Body.Bytes())
		require.Len(t, history, 1)
		require.NotNil(t, history[0].AdminNetID)
		assert.Equal(t, "prof", *history[0].AdminNetID)
	})

	t.Run("empty history is an array", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/admin/repo-history?netId=nobody", withCookie(admin))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("self demotion", func(t *testing.T) {
		rec := app.do(http.MethodPatch, "/api/admin/users/prof", withCookie(admin), withJSON(`{"role":"STUDENT"}`))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
