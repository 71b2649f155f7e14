package client

import (
	"context"

	"github.com/dmitrijs2005/orbiter/internal/client/models"
)

// Client is the Orbiter server API as seen by the CLI.
type Client interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Me(ctx context.Context, token string) (*models.User, error)
	Ping(ctx context.Context) (*models.Health, error)
	Close() error
}
