package users

import (
	"context"
)

// Repository is the persistence contract of the users service.
//
// Lookups return common.ErrorNotFound when no row matches; Insert returns
// common.ErrDuplicateUser when the username is taken. Any other error means
// the store itself failed.
type Repository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	Insert(ctx context.Context, username, email, passwordHash string) (*User, error)
}
