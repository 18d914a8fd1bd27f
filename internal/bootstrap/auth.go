package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/softwareconstruction240/autograder/config"
	"github.com/softwareconstruction240/autograder/internal/adapters/authroles"
	"github.com/softwareconstruction240/autograder/internal/adapters/devauth"
	"github.com/softwareconstruction240/autograder/internal/adapters/oidc"
	redisadapter "github.com/softwareconstruction240/autograder/internal/adapters/redis"
	"github.com/softwareconstruction240/autograder/internal/ports"
	"github.com/softwareconstruction240/autograder/internal/service"
)

// AuthConfig contains configuration for auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	// Users provisions user records on login. Optional.
	Users      ports.UserDirectory
	HTTPClient *http.Client // optional; used for OIDC discovery and token calls
	Logger     *slog.Logger
}

// AuthComponents is the wired auth stack.
type AuthComponents struct {
	Service  *service.AuthService
	Sessions *redisadapter.SessionStore
	// LogoutURL is the identity provider's end-session URL, empty in mock mode.
	LogoutURL string
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Every page depends on the session, so a misconfigured auth stack is a startup error.
func BuildAuthService(ctx context.Context, cfg AuthConfig) (*AuthComponents, error) {
	if cfg.RedisClient == nil {
		return nil, errors.New("auth: redis client is required for the session store")
	}

	// Create Redis session store shared by both modes
	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, cfg.Auth.SessionPrefix)

	// Role mapper is shared
	roleMapper := authroles.StaticRoleMapper{
		AdminGroup:   cfg.Auth.AdminGroup,
		StudentGroup: cfg.Auth.StudentGroup,
	}

	var (
		provider  ports.AuthProvider
		logoutURL string
		err       error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, err = buildDevAuthProvider(cfg)
	case config.AuthModeOAuth:
		var prov *oidc.Provider
		prov, err = buildOAuthProvider(ctx, cfg)
		if prov != nil {
			provider = prov
			logoutURL = prov.LogoutURL()
		}
	default:
		err = fmt.Errorf("auth: unsupported mode %q", cfg.Auth.Mode)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "auth configured",
			"mode", cfg.Auth.Mode,
			"admin_group", cfg.Auth.AdminGroup,
			"session_prefix", cfg.Auth.SessionPrefix,
		)
	}

	return &AuthComponents{
		Service: service.NewAuthService(service.AuthServiceOptions{
			Provider: provider,
			Sessions: sessionStore,
			Roles:    roleMapper,
			Users:    cfg.Users,
		}),
		Sessions:  sessionStore,
		LogoutURL: logoutURL,
	}, nil
}

func buildDevAuthProvider(cfg AuthConfig) (*devauth.Provider, error) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("dev auth enabled; every login is the configured identity",
			"net_id", cfg.Auth.DevAuth.NetID,
			"groups", cfg.Auth.DevAuth.Groups,
		)
	}
	prov, err := devauth.NewProvider(devauth.Config{
		NetID:     cfg.Auth.DevAuth.NetID,
		FirstName: cfg.Auth.DevAuth.FirstName,
		LastName:  cfg.Auth.DevAuth.LastName,
		Email:     cfg.Auth.DevAuth.Email,
		Groups:    cfg.Auth.DevAuth.Groups,
		// session duration defaults inside provider
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

func buildOAuthProvider(ctx context.Context, cfg AuthConfig) (*oidc.Provider, error) {
	oauth := cfg.Auth.OAuth
	if !cfg.Auth.OAuthConfigured() {
		if cfg.Logger != nil {
			cfg.Logger.Error("oauth mode selected but required config missing",
				"discovery_url_empty", oauth.DiscoveryURL == "",
				"client_id_empty", oauth.ClientID == "",
				"client_secret_empty", oauth.ClientSecret == "",
				"redirect_url_empty", oauth.RedirectURL == "",
			)
		}
		return nil, errors.New("auth: oauth mode requires OAUTH_CLIENT_ID, OAUTH_CLIENT_SECRET, OAUTH_DISCOVERY_URL and a redirect URL")
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     oauth.ClientID,
		ClientSecret: oauth.ClientSecret,
		RedirectURL:  oauth.RedirectURL,
		Scope:        oauth.Scope,
		DiscoveryURL: oauth.DiscoveryURL,
		LogoutURL:    oauth.LogoutURL,
		HTTPClient:   cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create oidc provider: %w", err)
	}
	return prov, nil
}
