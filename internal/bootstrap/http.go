package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/softwareconstruction240/autograder/config"
	redisadapter "github.com/softwareconstruction240/autograder/internal/adapters/redis"
	httpx "github.com/softwareconstruction240/autograder/internal/http"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config       *config.AppConfig
	Services     ServiceContainer
	HealthChecks []httpx.HealthCheck
	Logger       *slog.Logger
}

// NewHTTPServer builds the router and wraps it in an http.Server. The caller starts it.
func NewHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	if cfg.Services.Users == nil || cfg.Services.Auth == nil || cfg.Services.Auth.Service == nil {
		return nil, errors.New("user and auth services are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	callbackURL := ""
	if appCfg.Auth.Mode == config.AuthModeOAuth {
		callbackURL = appCfg.Auth.OAuth.RedirectURL
	}

	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:         cfg.Services.Auth.Service,
		Users:        cfg.Services.Users,
		CookieDomain: appCfg.HTTP.CookieDomain,
		CallbackURL:  callbackURL,
		LogoutURL:    cfg.Services.Auth.LogoutURL,
		HealthChecks: cfg.HealthChecks,
		IsDev:        appCfg.IsDev,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	return newServer(handler, appCfg.HTTP.Addr), nil
}

func newServer(handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// HealthChecks returns the dependency checks reported by /healthz.
func HealthChecks(db *sql.DB, sessions *redisadapter.SessionStore) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if db != nil {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if sessions != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Check: sessions.Ping})
	}
	return checks
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration // defaults to 10s
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "shutting down HTTP server", "timeout", timeout)
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.InfoContext(ctx, "HTTP server stopped")
	}

	return nil
}
