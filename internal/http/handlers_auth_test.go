package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/ports"
	"github.com/softwareconstruction240/autograder/internal/testutil"
)

func oauthCookies(state, nonce, dest string) []reqOpt {
	opts := []reqOpt{
		withCookie(&http.Cookie{Name: cookieOAuthState, Value: state}),
		withCookie(&http.Cookie{Name: cookieOAuthNonce, Value: nonce}),
	}
	if dest != "" {
		opts = append(opts, withCookie(&http.Cookie{Name: cookiePostLoginDest, Value: dest}))
	}
	return opts
}

func TestAuthLogin_SetsCookiesAndRedirectsToProvider(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/auth/login?redirect_uri=/help")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://mock-idp/auth", rec.Header().Get("Location"))

	state := findCookie(rec, cookieOAuthState)
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, oauthCookieMaxAge, state.MaxAge)

	nonce := findCookie(rec, cookieOAuthNonce)
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)

	dest := findCookie(rec, cookiePostLoginDest)
	require.NotNil(t, dest)
	assert.Equal(t, "/help", dest.Value)
}

func TestAuthLogin_UnsafeRedirectFallsBackToRoot(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/auth/login?redirect_uri=//evil.example/x")
	require.Equal(t, http.StatusFound, rec.Code)
	dest := findCookie(rec, cookiePostLoginDest)
	require.NotNil(t, dest)
	assert.Equal(t, "/", dest.Value)
}

func TestAuthLogin_ProviderFailure(t *testing.T) {
	app := newTestApp(t)
	app.provider.BeginFunc = func(context.Context, ports.BeginInput) (string, string, string, error) {
		return "", "", "", errors.New("discovery failed")
	}

	rec := app.do(http.MethodGet, "/auth/login")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error="+LoginErrProvider, rec.Header().Get("Location"))
}

func TestAuthCallback_Success(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/auth/callback?code=abc&state=state-1", oauthCookies("state-1", "nonce-1", "/help")...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/help", rec.Header().Get("Location"))

	session := findCookie(rec, cookieSession)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.Equal(t, 1, app.sessions.Len())

	cleared := findCookie(rec, cookieOAuthState)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)

	user, err := app.repo.GetByNetID(context.Background(), "cosmo")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleStudent, user.Role)
	assert.Equal(t, "Cosmo", user.FirstName)

	// A new student is logged in but not registered yet.
	rec = app.do(http.MethodGet, "/", withCookie(&http.Cookie{Name: cookieSession, Value: session.Value}))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
}

func TestAuthCallback_AdminGroupProvisionsAdmin(t *testing.T) {
	app := newTestApp(t)
	app.provider.DefaultUser = domainauth.Identity{UserID: "prof", FirstName: "Jerod", Groups: []string{testAdminGroup}}

	rec := app.do(http.MethodGet, "/auth/callback?code=abc&state=s", oauthCookies("s", "n", "")...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	user, err := app.repo.GetByNetID(context.Background(), "prof")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, user.Role)
}

func TestAuthCallback_ExistingUserKeepsStoredRole(t *testing.T) {
	app := newTestApp(t, testutil.NewUser("cosmo").Admin().Build())

	rec := app.do(http.MethodGet, "/auth/callback?code=abc&state=s", oauthCookies("s", "n", "")...)
	require.Equal(t, http.StatusFound, rec.Code)

	session := findCookie(rec, cookieSession)
	require.NotNil(t, session)
	stored, err := app.sessions.Get(context.Background(), session.Value)
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, stored.Role)
}

func TestAuthCallback_Failures(t *testing.T) {
	tests := []struct {
		name   string
		target string
		opts   []reqOpt
		setup  func(*testApp)
		code   string
	}{
		{
			name:   "provider error param",
			target: "/auth/callback?error=access_denied&state=s",
			opts:   oauthCookies("s", "n", ""),
			code:   LoginErrProvider,
		},
		{
			name:   "missing code",
			target: "/auth/callback?state=s",
			opts:   oauthCookies("s", "n", ""),
			code:   LoginErrMissingCode,
		},
		{
			name:   "state mismatch",
			target: "/auth/callback?code=abc&state=other",
			opts:   oauthCookies("s", "n", ""),
			code:   LoginErrInvalidState,
		},
		{
			name:   "no state cookie",
			target: "/auth/callback?code=abc&state=s",
			code:   LoginErrInvalidState,
		},
		{
			name:   "missing nonce",
			target: "/auth/callback?code=abc&state=s",
			opts:   []reqOpt{withCookie(&http.Cookie{Name: cookieOAuthState, Value: "s"})},
			code:   LoginErrMissingNonce,
		},
		{
			name:   "exchange fails",
			target: "/auth/callback?code=abc&state=s",
			opts:   oauthCookies("s", "n", ""),
			setup: func(a *testApp) {
				a.provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.Identity, error) {
					return domainauth.Identity{}, errors.New("bad code")
				}
			},
			code: LoginErrFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t)
			if tt.setup != nil {
				tt.setup(app)
			}

			rec := app.do(http.MethodGet, tt.target, tt.opts...)
			require.Equal(t, http.StatusFound, rec.Code)
			loc := rec.Header().Get("Location")
			assert.Equal(t, "/?error="+tt.code, loc)
			assert.Nil(t, findCookie(rec, cookieSession))
			assert.Equal(t, 0, app.sessions.Len())

			// Home forwards the code to the login page, which explains it.
			rec = app.do(http.MethodGet, loc)
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login?error="+tt.code, rec.Header().Get("Location"))
		})
	}
}

func TestAuthLogout(t *testing.T) {
	app := newTestApp(t, testutil.NewUser("cosmo").Build())
	cookie := app.login(t, "cosmo")

	rec := app.do(http.MethodPost, "/auth/logout", withCookie(cookie))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 0, app.sessions.Len())

	cleared := findCookie(rec, cookieSession)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestAuthLogout_JSON(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/auth/logout", withJSON(""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/"}`, rec.Body.String())
}

func TestAuthLogout_ProviderLogoutURL(t *testing.T) {
	h := &AuthHandlers{Svc: stubAuth{}, LogoutURL: "https://idp.example.com/logout", Logger: discardLogger()}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://idp.example.com/logout", rec.Header().Get("Location"))
}

func TestAuthStatus(t *testing.T) {
	app := newTestApp(t, testutil.NewUser("cosmo").WithRepo("https://github.com/cosmo/chess").Build())

	rec := app.do(http.MethodGet, "/auth/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var anon authStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &anon))
	assert.False(t, anon.Authenticated)
	assert.False(t, anon.State.LoggedIn)
	assert.Nil(t, anon.State.User)

	rec = app.do(http.MethodGet, "/auth/status", withCookie(app.login(t, "cosmo")))
	require.Equal(t, http.StatusOK, rec.Code)
	var status authStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Authenticated)
	require.NotNil(t, status.User)
	assert.Equal(t, "cosmo", status.User.NetID)
	assert.True(t, status.State.LoggedIn)
	assert.True(t, status.State.FullyRegistered)
	require.NotNil(t, status.State.User)
	assert.Equal(t, domainauth.RoleStudent, status.State.User.Role)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := map[string]string{
		"":                      "/",
		"/help":                 "/help",
		"/admin?netId=cosmo":    "/admin?netId=cosmo",
		"//evil.example":        "/",
		"/\\evil.example":       "/",
		"\\/evil.example":       "/",
		"/help\\..":             "/",
		"/%5Cevil.example":      "/%5Cevil.example",
		"https://evil.example/": "/",
		"relative":              "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirectPath(in), "input %q", in)
	}
}
