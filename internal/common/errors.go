// Package common defines shared constants and sentinel errors used across
// client and server layers of Orbiter. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors. ErrInvalidCredentials covers both an unknown
	// username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("user already exists")

	// Validation errors (client input shape).
	ErrValidation = errors.New("validation error")
)
