package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/orbiter/internal/filex"
	"github.com/dmitrijs2005/orbiter/internal/server/migrations"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	_ "modernc.org/sqlite"
)

type SQLiteRepositoryManager struct {
	db    *sql.DB
	users users.Repository
}

func (m *SQLiteRepositoryManager) Kind() string            { return KindSQLite }
func (m *SQLiteRepositoryManager) Conn() *sql.DB           { return m.db }
func (m *SQLiteRepositoryManager) Users() users.Repository { return m.users }
func (m *SQLiteRepositoryManager) Close() error            { return m.db.Close() }

func (m *SQLiteRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrate(ctx, m.db, "sqlite3", migrations.SQLiteDir)
}

func NewSQLiteRepositoryManager(path string) (*SQLiteRepositoryManager, error) {
	if path == "" {
		return nil, errors.New("empty sqlite path")
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	// every connection to a plain :memory: database is a separate database
	if strings.Contains(path, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteRepositoryManager{
		db:    db,
		users: users.NewSQLiteRepository(db),
	}, nil
}
