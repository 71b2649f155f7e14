// Package migrations embeds the goose migrations for every supported
// server backend. Each dialect lives in its own directory.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var Migrations embed.FS

// Directories inside Migrations, keyed by goose dialect.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)
