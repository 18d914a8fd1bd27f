package httpx

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/softwareconstruction240/autograder/internal/testutil"
	"pgregory.net/rapid"
)

const registeredRepo = "https://github.com/ada/chess"

func newNavigationApp(t *testing.T) *testApp {
	t.Helper()
	return newTestApp(t,
		testutil.NewUser("cosmo").Build(),
		testutil.NewUser("ada").WithRepo(registeredRepo).Build(),
		testutil.NewUser("prof").Admin().Build(),
	)
}

func TestRouter_PageGuards(t *testing.T) {
	app := newNavigationApp(t)

	visitors := map[string]*http.Cookie{
		"anonymous":    nil,
		"unregistered": app.login(t, "cosmo"),
		"registered":   app.login(t, "ada"),
		"admin":        app.login(t, "prof"),
	}

	tests := []struct {
		path     string
		visitor  string
		location string // empty means the page renders
	}{
		{"/", "anonymous", "/login"},
		{"/", "unregistered", "/register"},
		{"/", "registered", ""},
		{"/", "admin", "/admin"},
		{"/help", "anonymous", ""},
		{"/help", "unregistered", ""},
		{"/help", "admin", ""},
		{"/register", "anonymous", "/login"},
		{"/register", "unregistered", ""},
		{"/register", "registered", "/"},
		{"/register", "admin", "/"},
		{"/admin", "anonymous", "/"},
		{"/admin", "unregistered", "/"},
		{"/admin", "registered", "/"},
		{"/admin", "admin", ""},
		{"/login", "anonymous", ""},
		{"/login", "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.visitor+" "+tt.path, func(t *testing.T) {
			rec := app.do(http.MethodGet, tt.path, withCookie(visitors[tt.visitor]))
			if tt.location == "" {
				require.Equal(t, http.StatusOK, rec.Code)
				assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
				return
			}
			require.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRouter_LoggedOutHomeForwardsErrorToLogin(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/?error=x")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?error=x", rec.Header().Get("Location"))
}

func TestRouter_LoggedOutHomeForwardsAnyErrorCode(t *testing.T) {
	app := newNavigationApp(t)
	rapid.Check(t, func(rt *rapid.T) {
		code := rapid.StringMatching(`[a-z_]{1,16}`).Draw(rt, "code")
		rec := app.do(http.MethodGet, "/?error="+code)
		if rec.Code != http.StatusFound {
			rt.Fatalf("status = %d, want 302", rec.Code)
		}
		want := "/login?" + url.Values{"error": {code}}.Encode()
		if got := rec.Header().Get("Location"); got != want {
			rt.Fatalf("location = %q, want %q", got, want)
		}
	})
}

func TestRouter_OtherRedirectsDropQuery(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/?error=x", withCookie(app.login(t, "cosmo")))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))

	rec = app.do(http.MethodGet, "/register?error=x")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_LoginPageShowsForwardedError(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/login?error="+LoginErrInvalidState)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), LoginErrorMessage(LoginErrInvalidState))
}

func TestRouter_LoginLinkCarriesForwardedRedirect(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/?redirect=/help")
	require.Equal(t, http.StatusFound, rec.Code)
	loc := rec.Header().Get("Location")
	assert.Equal(t, "/login?redirect=%2Fhelp", loc)

	rec = app.do(http.MethodGet, loc)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/auth/login?redirect_uri=%2Fhelp"`)

	rec = app.do(http.MethodGet, "/login?redirect=//evil.example")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/auth/login"`)
}

func TestSignInURL(t *testing.T) {
	tests := map[string]string{
		"":                   "/auth/login",
		"/":                  "/auth/login",
		"/help":              "/auth/login?redirect_uri=%2Fhelp",
		"/admin?netId=cosmo": "/auth/login?redirect_uri=%2Fadmin%3FnetId%3Dcosmo",
		"/\\evil.example":    "/auth/login",
		"https://evil.test":  "/auth/login",
	}
	for in, want := range tests {
		assert.Equal(t, want, signInURL(in), "input %q", in)
	}
}

func TestRouter_RoleComesFromUserRecord(t *testing.T) {
	app := newNavigationApp(t)

	// The stored session says STUDENT but the user record says ADMIN.
	rec := app.do(http.MethodGet, "/admin", withCookie(app.login(t, "prof")))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SessionWithoutUserIsAnonymous(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/", withCookie(app.login(t, "ghost")))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_UnknownSessionCookieIsAnonymous(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/", withCookie(&http.Cookie{Name: cookieSession, Value: "nope"}))
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_NotFound(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/grades")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestRouter_HomeRendersRegisteredRepo(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/", withCookie(app.login(t, "ada")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{registeredRepo, "ada", "Log out"}))
}

func TestRouter_AdminNavLinkOnlyForAdmins(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/help", withCookie(app.login(t, "prof")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/admin"`)

	rec = app.do(http.MethodGet, "/help", withCookie(app.login(t, "ada")))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `href="/admin"`)
}

func TestRouter_StaticAssets(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/static/css/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	rec = app.do(http.MethodGet, "/static/missing.js")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	app := newNavigationApp(t)

	rec := app.do(http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutePattern(t *testing.T) {
	assert.Equal(t, "/{$}", routePattern("/"))
	assert.Equal(t, "/help", routePattern("/help"))
}

func TestStaticCacheHeaders(t *testing.T) {
	assert.True(t, hashedFilePattern.MatchString("/js/app.0123abcd.js"))
	assert.True(t, hashedFilePattern.MatchString("/css/app.0123abcd.css.map"))
	assert.False(t, hashedFilePattern.MatchString("/css/app.css"))
}
