package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taskManager/internal/auth"
	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/repository/inmemory"
	"taskManager/internal/repository/postgres"
	"taskManager/internal/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Storage is everything the services need from a backend.
type Storage interface {
	service.UserRepository
	service.ProjectRepository
	service.TaskRepository
	handlers.HealthChecker
	Close()
}

type App struct {
	config  *config.Config
	storage Storage
	tokens  *auth.Issuer

	users    *service.UserService
	projects *service.ProjectService
	tasks    *service.TaskService

	router http.Handler
	server *http.Server
}

// New opens the configured storage and builds the services and router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithStorage(cfg, storage), nil
}

// NewWithStorage wires the app on top of an already open backend.
func NewWithStorage(cfg *config.Config, storage Storage) *App {
	a := &App{
		config:  cfg,
		storage: storage,
		tokens: auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL,
			auth.WithIssuer(cfg.JWT.Issuer)),
	}

	a.users = service.NewUserService(storage, a.tokens, cfg.Registration.AllowElevatedRoles)
	a.projects = service.NewProjectService(storage, storage)
	a.tasks = service.NewTaskService(storage, storage, storage)
	a.router = a.newRouter()

	a.server = &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a
}

func openStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Repository.Type {
	case "inmemory":
		logger.Info("App: using in-memory storage")
		return inmemory.New(), nil
	case "postgres":
		if cfg.Database.MigrateOnStart {
			if err := postgres.Migrate(cfg.Database.URL); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		storage, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		logger.Info("App: using postgres storage")
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown repository type %q", cfg.Repository.Type)
	}
}

func (a *App) Router() http.Handler {
	return a.router
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
// within server.shutdown_timeout and closes storage.
func (a *App) Run(ctx context.Context) error {
	defer a.storage.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	logger.Info("App: stopped")
	return err
}
