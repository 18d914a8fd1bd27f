package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/softwareconstruction240/autograder/config"
	"github.com/softwareconstruction240/autograder/internal/data"
	"github.com/softwareconstruction240/autograder/internal/service"
)

// defaultShutdownTimeout bounds graceful shutdown when the config leaves it unset.
const defaultShutdownTimeout = 10 * time.Second

// ServiceDeps contains dependencies needed to build services.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the application services.
type ServiceContainer struct {
	Users *service.UserService
	Auth  *AuthComponents
}

// NewServices builds the user service on Postgres and the auth stack on Redis.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps and config are required")
	}
	if deps.DB == nil {
		return ServiceContainer{}, errors.New("database is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	users := service.NewUserService(service.UserServiceOptions{
		Repo:   data.NewUserRepo(deps.DB),
		Logger: logger,
	})

	auth, err := BuildAuthService(ctx, AuthConfig{
		Auth:        deps.Config.Auth,
		RedisClient: deps.RedisClient,
		Users:       users,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{Users: users, Auth: auth}, nil
}

// ServiceOrchestrationConfig contains dependencies for running the server until shutdown.
type ServiceOrchestrationConfig struct {
	Server *http.Server
	// Listener overrides Server.Addr (tests listen on an ephemeral port).
	Listener        net.Listener
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// RunServicesWithShutdown serves HTTP until ctx is cancelled or the process receives
// SIGINT or SIGTERM, then drains in-flight requests.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Server == nil {
		return errors.New("server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		var err error
		if cfg.Listener != nil {
			logger.InfoContext(gctx, "starting HTTP server", "addr", cfg.Listener.Addr().String())
			err = cfg.Server.Serve(cfg.Listener)
		} else {
			logger.InfoContext(gctx, "starting HTTP server", "addr", cfg.Server.Addr)
			err = cfg.Server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.InfoContext(gctx, "shutdown signal received")
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.WithoutCancel(gctx),
			Server:  cfg.Server,
			Timeout: cfg.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}
