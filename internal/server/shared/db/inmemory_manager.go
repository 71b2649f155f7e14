package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/orbiter/internal/server/users"
)

type InMemoryRepositoryManager struct {
	users users.Repository
}

func (m *InMemoryRepositoryManager) Kind() string                        { return KindMemory }
func (m *InMemoryRepositoryManager) Conn() *sql.DB                       { return nil }
func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Ping(context.Context) error          { return nil }
func (m *InMemoryRepositoryManager) Users() users.Repository             { return m.users }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewMemoryRepository()}
}
