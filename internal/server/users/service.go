// Package users registers accounts and verifies credentials.
package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/cryptox"
	"github.com/dmitrijs2005/orbiter/internal/server/auth"
	"github.com/go-playground/validator/v10"
)

type Service struct {
	repo     Repository
	hasher   cryptox.PasswordHasher
	codec    *auth.Codec
	validate *validator.Validate

	// dummyHash is verified against when the username is unknown, so that
	// a miss costs the same as a wrong password.
	dummyHash string
}

func NewService(repo Repository, hasher cryptox.PasswordHasher, codec *auth.Codec) (*Service, error) {
	filler, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("dummy password: %w", err)
	}

	dummy, err := hasher.Hash(filler)
	if err != nil {
		return nil, fmt.Errorf("dummy hash: %w", err)
	}

	return &Service{
		repo:      repo,
		hasher:    hasher,
		codec:     codec,
		validate:  newValidator(),
		dummyHash: dummy,
	}, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, toValidationError(verrs)
		}
		return nil, fmt.Errorf("%w: validate: %w", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, &ValidationError{Fields: map[string]string{
				"password": fmt.Sprintf("must be at most %d bytes", cryptox.BcryptMaxPasswordBytes),
			}}
		}
		return nil, fmt.Errorf("%w: hash password: %w", common.ErrorInternal, err)
	}

	user, err := s.repo.Insert(ctx, in.Username, in.Email, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) {
			return nil, common.ErrDuplicateUser
		}
		return nil, fmt.Errorf("%w: insert user: %w", common.ErrorInternal, err)
	}

	return user, nil
}

// Authenticate checks username and password. An unknown username and a
// wrong password both yield common.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find user: %w", common.ErrorInternal, err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: verify password: %w", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return user, nil
}

// Login authenticates the user and issues a bearer token for them.
func (s *Service) Login(ctx context.Context, username, password string) (string, *User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	token, err := s.codec.Issue(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	return token, user, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: find user: %w", common.ErrorInternal, err)
	}
	return user, nil
}
