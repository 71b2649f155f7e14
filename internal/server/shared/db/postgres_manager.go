package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/orbiter/internal/server/migrations"
	"github.com/dmitrijs2005/orbiter/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresRepositoryManager struct {
	db    *sql.DB
	users users.Repository
}

func (m *PostgresRepositoryManager) Kind() string            { return KindPostgres }
func (m *PostgresRepositoryManager) Conn() *sql.DB           { return m.db }
func (m *PostgresRepositoryManager) Users() users.Repository { return m.users }
func (m *PostgresRepositoryManager) Close() error            { return m.db.Close() }

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	return migrate(ctx, m.db, "pgx", migrations.PostgresDir)
}

func NewPostgresRepositoryManager(dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	return &PostgresRepositoryManager{
		db:    db,
		users: users.NewPostgresRepository(db),
	}, nil
}
