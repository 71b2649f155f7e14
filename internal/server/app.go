// Package server wires the Orbiter HTTP server: it opens the user store,
// builds the password hasher, token codec and users service, and runs the
// HTTP server until a termination signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/orbiter/internal/cryptox"
	"github.com/dmitrijs2005/orbiter/internal/logging"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/dmitrijs2005/orbiter/internal/server/config"
	"github.com/dmitrijs2005/orbiter/internal/server/rest"
	"github.com/dmitrijs2005/orbiter/internal/server/shared/db"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	store       db.RepositoryManager
	userService *users.Service
	codec       *auth.Codec
	metrics     *rest.Metrics
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	store, err := db.NewRepositoryManager(ctx, c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := cryptox.NewHasher(c.HasherConfig())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	codec := auth.NewCodec([]byte(c.JWTSecret))

	us, err := users.NewService(store.Users(), hasher, codec)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}

	logger.Info(ctx, "Storage ready", "backend", store.Kind(), "password_algorithm", c.PasswordAlgorithm)

	return &App{
		config:      c,
		logger:      logger,
		store:       store,
		userService: us,
		codec:       codec,
		metrics:     rest.NewMetrics(nil),
	}, nil
}

// Handler returns the HTTP handler serving the API.
func (app *App) Handler() *gin.Engine {
	return rest.NewRouter(rest.RouterConfig{
		Users:   app.userService,
		Codec:   app.codec,
		Store:   app.store,
		Logger:  app.logger,
		Metrics: app.metrics,
		Prefix:  app.config.APIPrefix,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewHTTPServer(app.config.Addr(), app.Handler(), app.logger, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the store.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.Addr(), "api_prefix", app.config.APIPrefix)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.store.Close(); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}

	app.logger.Info(ctx, "App stopped")
}
