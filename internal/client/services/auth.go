// Package services contains application services for the Orbiter client.
// This file defines the authentication service: register, login, the
// current-user lookup, logout and the cached session behind them.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/client/client"
	"github.com/dmitrijs2005/orbiter/internal/client/models"
	"github.com/dmitrijs2005/orbiter/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/dbx"
)

// Metadata keys of the cached session.
const (
	keyUsername = "session.username"
	keyToken    = "session.token"
	keySavedAt  = "session.saved_at"
)

var (
	// ErrNotLoggedIn means no session is cached.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrSessionExpired means the server rejected the cached token; the
	// session has been dropped.
	ErrSessionExpired = fmt.Errorf("session expired: %w", client.ErrUnauthorized)
)

// AuthService defines authentication operations for the CLI.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*models.Session, error)
	Ping(ctx context.Context) (*models.Health, error)
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client
// and the local metadata table.
type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	return a.client.Register(ctx, username, email, password)
}

// Login authenticates against the server and replaces the cached session
// with the issued token.
func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	token, user, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := a.saveSession(ctx, user.Username, token); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return user, nil
}

func (a *authService) saveSession(ctx context.Context, username, token string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyUsername, []byte(username)); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, keySavedAt, []byte(strconv.FormatInt(a.now().Unix(), 10)))
	})
}

// Session returns the cached session or ErrNotLoggedIn.
func (a *authService) Session(ctx context.Context) (*models.Session, error) {
	repo := metadata.NewSQLiteRepository(a.db)

	token, err := repo.Get(ctx, keyToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	if len(token) == 0 {
		return nil, ErrNotLoggedIn
	}

	s := &models.Session{Token: string(token)}

	if name, err := repo.Get(ctx, keyUsername); err == nil {
		s.Username = string(name)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}
	if raw, err := repo.Get(ctx, keySavedAt); err == nil {
		if sec, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			s.SavedAt = time.Unix(sec, 0).UTC()
		}
	}

	return s, nil
}

// Me fetches the current user with the cached token. A token the server
// rejects is dropped from the cache and ErrSessionExpired returned.
func (a *authService) Me(ctx context.Context) (*models.User, error) {
	s, err := a.Session(ctx)
	if err != nil {
		return nil, err
	}

	user, err := a.client.Me(ctx, s.Token)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if cerr := a.Logout(ctx); cerr != nil {
				return nil, errors.Join(ErrSessionExpired, cerr)
			}
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	return user, nil
}

// Logout wipes the cached session.
func (a *authService) Logout(ctx context.Context) error {
	return metadata.NewSQLiteRepository(a.db).Clear(ctx)
}

func (a *authService) Ping(ctx context.Context) (*models.Health, error) {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
