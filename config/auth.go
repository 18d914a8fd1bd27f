package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// DefaultSessionPrefix namespaces session keys in Redis.
const DefaultSessionPrefix = "session:"

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
// RedirectURL defaults to APP_BASE_URL + /auth/callback.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"autograder"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	NetID     string   `env:"NET_ID"     envDefault:"dev-admin"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string   `env:"LAST_NAME"  envDefault:"Admin"`
	Email     string   `env:"EMAIL"`
	Groups    []string `env:"GROUPS"     envDefault:"cs240-tas" envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OAuth configuration (used when Mode=oauth).
	OAuth OAuthConfig `envPrefix:"OAUTH_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the IdP group whose members are provisioned as admins.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// StudentGroup is the IdP group for enrolled students. Informational only:
	// users outside it still sign in as students.
	StudentGroup string `env:"STUDENT_GROUP"`

	// SessionPrefix namespaces session keys in Redis.
	SessionPrefix string `env:"SESSION_PREFIX" envDefault:"session:"`
}

// Sanitize trims values and derives the OAuth redirect URL from baseURL when unset.
func (a *AuthConfig) Sanitize(baseURL string) {
	a.AdminGroup = strings.TrimSpace(a.AdminGroup)
	a.StudentGroup = strings.TrimSpace(a.StudentGroup)
	a.OAuth.DiscoveryURL = strings.TrimSpace(a.OAuth.DiscoveryURL)
	if a.OAuth.RedirectURL = strings.TrimSpace(a.OAuth.RedirectURL); a.OAuth.RedirectURL == "" {
		a.OAuth.RedirectURL = strings.TrimRight(baseURL, "/") + "/auth/callback"
	}
	if strings.TrimSpace(a.SessionPrefix) == "" {
		a.SessionPrefix = DefaultSessionPrefix
	}
}

// OAuthConfigured reports whether the OIDC provider has everything it needs.
func (a *AuthConfig) OAuthConfigured() bool {
	return a.OAuth.DiscoveryURL != "" && a.OAuth.ClientID != "" && a.OAuth.ClientSecret != ""
}
