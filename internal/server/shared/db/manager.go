// Package db opens the user store selected by the DATABASE_URL scheme and
// runs its migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/dmitrijs2005/orbiter/internal/server/migrations"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	"github.com/pressly/goose/v3"
)

// Storage kinds reported by RepositoryManager.Kind.
const (
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindMemory   = "memory"
)

type RepositoryManager interface {
	Kind() string
	RunMigrations(context.Context) error
	Ping(context.Context) error
	// Conn is nil for the in-memory store.
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}

// NewRepositoryManager picks the backend from the scheme of dsn:
//
//	postgres://, postgresql://  PostgreSQL via pgx
//	sqlite://<path>, file:...   SQLite via modernc.org/sqlite
//	memory://                   process memory
//
// Migrations are applied before it returns.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		m, err = NewPostgresRepositoryManager(dsn)
	case strings.HasPrefix(dsn, "sqlite://"), strings.HasPrefix(dsn, "file:"):
		m, err = NewSQLiteRepositoryManager(sqlitePath(dsn))
	case strings.HasPrefix(dsn, "memory://"):
		m = NewInMemoryRepositoryManager()
	default:
		return nil, fmt.Errorf("unsupported database url scheme: %q", scheme(dsn))
	}
	if err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func scheme(dsn string) string {
	if i := strings.Index(dsn, ":"); i > 0 {
		return dsn[:i]
	}
	return dsn
}

// sqlitePath turns sqlite://<path> into a driver DSN; file: URIs pass through.
func sqlitePath(dsn string) string {
	return strings.TrimPrefix(dsn, "sqlite://")
}

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

func migrate(ctx context.Context, conn *sql.DB, dialect, dir string) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	if _, err := fs.Stat(migrations.Migrations, dir); err != nil {
		return fmt.Errorf("migrations dir %q: %w", dir, err)
	}

	return goose.UpContext(ctx, conn, dir)
}
