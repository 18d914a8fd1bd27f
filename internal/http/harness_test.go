package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/domain/model"
	"github.com/softwareconstruction240/autograder/internal/mocks"
	authmocks "github.com/softwareconstruction240/autograder/internal/mocks/auth"
	"github.com/softwareconstruction240/autograder/internal/service"
)

const testAdminGroup = "cs240-tas"

// testApp is the full router backed by real services and in-memory stores.
type testApp struct {
	handler  http.Handler
	repo     *mocks.MemoryUserRepository
	sessions *authmocks.MemorySessionStore
	provider *authmocks.MockAuthProvider
	checks   []HealthCheck
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, users ...*model.User) *testApp {
	t.Helper()
	return newTestAppWithChecks(t, nil, users...)
}

func newTestAppWithChecks(t *testing.T, checks []HealthCheck, users ...*model.User) *testApp {
	t.Helper()
	SkipIfNoTemplates(t)

	repo := mocks.NewMemoryUserRepository(users...)
	userSvc := service.NewUserService(service.UserServiceOptions{Repo: repo, Logger: discardLogger()})
	sessions := authmocks.NewMemorySessionStore()
	provider := authmocks.NewMockAuthProvider()
	authSvc := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: sessions,
		Roles:    authmocks.StaticRoleMapper{AdminGroup: testAdminGroup},
		Users:    userSvc,
	})

	h, err := NewRouter(RouterServices{
		Auth:         authSvc,
		Users:        userSvc,
		CallbackURL:  "http://autograder.test/auth/callback",
		TemplateFS:   os.DirFS(TemplatePathFromTest),
		HealthChecks: checks,
		Logger:       discardLogger(),
	})
	require.NoError(t, err)

	return &testApp{handler: h, repo: repo, sessions: sessions, provider: provider, checks: checks}
}

// login stores a session for netID and returns its cookie.
func (a *testApp) login(t *testing.T, netID string) *http.Cookie {
	t.Helper()
	id := "sess-" + netID
	require.NoError(t, a.sessions.Save(context.Background(), domainauth.Session{
		ID:        id,
		UserID:    netID,
		Role:      domainauth.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}))
	return &http.Cookie{Name: cookieSession, Value: id}
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt {
	return func(r *http.Request) {
		if c != nil {
			r.AddCookie(c)
		}
	}
}

// testCSRFToken is the token withForm submits in both the cookie and the form.
const testCSRFToken = "test-csrf-token"

// withForm posts vals the way a rendered page would, echoing the CSRF cookie.
func withForm(vals url.Values) reqOpt {
	return func(r *http.Request) {
		vals.Set(DefaultCSRFCookieName, testCSRFToken)
		r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: testCSRFToken})
		withRawForm(vals)(r)
	}
}

// withRawForm posts vals exactly as given.
func withRawForm(vals url.Values) reqOpt {
	return func(r *http.Request) {
		body := vals.Encode()
		r.Body = io.NopCloser(strings.NewReader(body))
		r.ContentLength = int64(len(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
}

func withJSON(body string) reqOpt {
	return func(r *http.Request) {
		r.Body = io.NopCloser(strings.NewReader(body))
		r.ContentLength = int64(len(body))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Accept", "application/json")
	}
}

func (a *testApp) do(method, target string, opts ...reqOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, o := range opts {
		o(req)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
