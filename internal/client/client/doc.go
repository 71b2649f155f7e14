// Package client contains client-side building blocks for Orbiter.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the Orbiter server: Register, Login, Me and Ping.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that tags every request
//     with a request id and maps error responses to APIError.
//  3. Local persistence bootstrap (OpenDatabase, RunMigrations) for the CLI's
//     session cache, an SQLite file migrated with embedded goose migrations.
//
// # Error Handling
//
// APIError unwraps to a sentinel by status code, so callers can match
// ErrUnauthorized, ErrConflict, ErrInvalidInput, ErrNotFound and ErrServer
// with errors.Is. Transport failures wrap ErrUnavailable.
package client
