package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/softwareconstruction240/autograder/internal/domain/auth"
	"github.com/softwareconstruction240/autograder/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

var _ AuthServiceInterface = (*service.AuthService)(nil)

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	CookieDomain string
	// CallbackURL is the absolute redirect URL registered with the identity provider.
	CallbackURL string
	// LogoutURL is the identity provider's end-session page; empty sends the browser home.
	LogoutURL string
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login starts a login flow.
// GET /auth/login?redirect_uri=<optional same-origin path>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), h.callbackURL(r))
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		h.failLogin(w, r, LoginErrProvider)
		return
	}

	h.setOAuthCookies(w, r, oauthCookieParams{State: result.State, Nonce: result.Nonce, RedirectURI: redirectURI})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback completes a login flow.
// GET /auth/callback?code=<code>&state=<state>.
// Failures redirect to /?error=<code>; the home guard forwards the code to the login page.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if idpErr := q.Get("error"); idpErr != "" {
		h.logger().WarnContext(r.Context(), "identity provider returned error",
			"error", idpErr, "description", q.Get("error_description"))
		h.failLogin(w, r, LoginErrProvider)
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" {
		h.failLogin(w, r, LoginErrMissingCode)
		return
	}

	stateCookie, err := r.Cookie(cookieOAuthState)
	if state == "" || err != nil || stateCookie.Value != state {
		h.failLogin(w, r, LoginErrInvalidState)
		return
	}
	nonceCookie, err := r.Cookie(cookieOAuthNonce)
	if err != nil || nonceCookie.Value == "" {
		h.failLogin(w, r, LoginErrMissingNonce)
		return
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "complete login failed", "error", err)
		h.failLogin(w, r, LoginErrFailed)
		return
	}

	h.logger().InfoContext(r.Context(), "login succeeded",
		"net_id", result.Session.UserID, "role", result.Session.Role)

	h.setSessionCookie(w, r, result.Session)
	h.clearCookie(w, r, cookieOAuthState)
	h.clearCookie(w, r, cookieOAuthNonce)

	http.Redirect(w, r, h.getPostLoginRedirect(w, r), http.StatusFound)
}

// failLogin clears the in-flight login cookies and sends the browser home with an error code.
func (h *AuthHandlers) failLogin(w http.ResponseWriter, r *http.Request, code string) {
	h.clearCookie(w, r, cookieOAuthState)
	h.clearCookie(w, r, cookieOAuthNonce)
	h.clearCookie(w, r, cookiePostLoginDest)
	u := url.URL{Path: "/", RawQuery: url.Values{"error": {code}}.Encode()}
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// Logout ends the session.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie(cookieSession); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, cookieSession)

	// Home sends an anonymous visitor to the login page.
	dest := "/"
	if h.LogoutURL != "" {
		dest = h.LogoutURL
	}
	if wantsJSON(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "redirect_to": dest})
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// Status reports the caller's authentication and navigation state.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		if _, err := r.Cookie(cookieSession); err == nil {
			h.clearCookie(w, r, cookieSession)
		}
		WriteJSON(w, http.StatusOK, authStatus{Authenticated: false, State: StateFromContext(r.Context())})
		return
	}

	WriteJSON(w, http.StatusOK, authStatus{
		Authenticated: true,
		User: &statusUser{
			NetID:     session.UserID,
			FirstName: session.FirstName,
			LastName:  session.LastName,
			Email:     session.Email,
		},
		State:     StateFromContext(r.Context()),
		ExpiresAt: &session.ExpiresAt,
	})
}

type authStatus struct {
	Authenticated bool             `json:"authenticated"`
	User          *statusUser      `json:"user,omitempty"`
	State         domainauth.State `json:"state"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
}

type statusUser struct {
	NetID     string `json:"net_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}

// callbackURL returns the configured callback, or one derived from the request host.
func (h *AuthHandlers) callbackURL(r *http.Request) string {
	if h.CallbackURL != "" {
		return h.CallbackURL
	}
	scheme := "http"
	if isSecureRequest(r) {
		scheme = "https"
	}
	return (&url.URL{Scheme: scheme, Host: r.Host, Path: "/auth/callback"}).String()
}

// isSecureRequest reports TLS directly or via a proxy's X-Forwarded-Proto, which may
// list several hops ("https,http").
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}

func (h *AuthHandlers) cookie(r *http.Request, name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// clearCookie expires a cookie, mirroring the attributes it was set with.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	c := h.cookie(r, name, "", -1)
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

type oauthCookieParams struct {
	State       string
	Nonce       string
	RedirectURI string
}

// setOAuthCookies stores the state, nonce, and post-login redirect for the callback.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, r *http.Request, p oauthCookieParams) {
	http.SetCookie(w, h.cookie(r, cookieOAuthState, p.State, oauthCookieMaxAge))
	http.SetCookie(w, h.cookie(r, cookieOAuthNonce, p.Nonce, oauthCookieMaxAge))
	http.SetCookie(w, h.cookie(r, cookiePostLoginDest, p.RedirectURI, oauthCookieMaxAge))
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, h.cookie(r, cookieSession, s.ID, int(time.Until(s.ExpiresAt).Seconds())))
}

// getPostLoginRedirect returns the post-login destination and clears its cookie.
func (h *AuthHandlers) getPostLoginRedirect(w http.ResponseWriter, r *http.Request) string {
	redirectURI := "/"
	if c, err := r.Cookie(cookiePostLoginDest); err == nil {
		redirectURI = safeRedirectPath(c.Value)
		h.clearCookie(w, r, cookiePostLoginDest)
	}
	return redirectURI
}

// safeRedirectPath ensures the redirect is a same-origin relative path starting
// with "/". Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	// Browsers treat a backslash like a slash, so "/\host" is protocol-relative.
	if strings.ContainsRune(candidate, '\\') || (len(candidate) > 1 && candidate[1] == '/') {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
