package httpx

// Cookie names shared by the auth handlers and middleware.
const (
	cookieSession       = "session_id"
	cookieOAuthState    = "oauth_state"
	cookieOAuthNonce    = "oauth_nonce"
	cookiePostLoginDest = "post_login_redirect"
)

// oauthCookieMaxAge bounds how long a login round trip may take, in seconds.
const oauthCookieMaxAge = 600

// Error codes passed to the home page as ?error= when a login fails.
// The home guard forwards them to the login page.
const (
	LoginErrMissingCode  = "missing_code"
	LoginErrInvalidState = "invalid_state"
	LoginErrMissingNonce = "missing_nonce"
	LoginErrFailed       = "login_failed"
	LoginErrProvider     = "provider_error"
)

// loginErrorMessages are shown on the login page for known error codes.
var loginErrorMessages = map[string]string{ //nolint:gochecknoglobals // read-only lookup table
	LoginErrMissingCode:  "The sign-in response was incomplete. Please try again.",
	LoginErrInvalidState: "Your sign-in attempt expired or was started in another tab. Please try again.",
	LoginErrMissingNonce: "Your sign-in attempt expired. Please try again.",
	LoginErrFailed:       "We couldn't sign you in. Please try again.",
	LoginErrProvider:     "The university sign-in service reported an error.",
}

// LoginErrorMessage returns the user-facing message for a login error code.
// Unknown non-empty codes get a generic message.
func LoginErrorMessage(code string) string {
	if code == "" {
		return ""
	}
	if msg, ok := loginErrorMessages[code]; ok {
		return msg
	}
	return "Sign-in failed. Please try again."
}

// Template locations relative to the module root and to this package's tests.
const (
	TemplatePathFromRoot = "web/templates"
	TemplatePathFromTest = "../../web/templates"
	StaticPathFromRoot   = "web/static"
)
