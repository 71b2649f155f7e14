package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/orbiter/internal/client/client"
	"github.com/dmitrijs2005/orbiter/internal/client/config"
	"github.com/dmitrijs2005/orbiter/internal/client/services"
	"github.com/dmitrijs2005/orbiter/internal/logging"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	db          *sql.DB
	logger      logging.Logger
	reader      *bufio.Reader
	out         io.Writer
	userName    string
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.OpenDatabase(ctx, c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	apiClient := client.NewHTTPClient(c.BaseURL(), c.RequestTimeout)

	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient, db),
		db:          db,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// restoreSession picks up a session cached by an earlier run.
func (a *App) restoreSession(ctx context.Context) {
	s, err := a.authService.Session(ctx)
	if err != nil {
		if !errors.Is(err, services.ErrNotLoggedIn) {
			a.logger.Warn(ctx, "reading cached session", "error", err)
		}
		return
	}
	a.userName = s.Username
	a.logger.Debug(ctx, "session restored", "username", s.Username, "saved_at", s.SavedAt)
}

// Run serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.authService.Close(ctx); err != nil {
			a.logger.Warn(ctx, "closing api client", "error", err)
		}
		if a.db != nil {
			_ = a.db.Close()
		}
	}()

	a.logger.Info(ctx, "client started", "server", a.config.BaseURL())
	a.restoreSession(ctx)

	printlnFn("Welcome to Orbiter CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}
