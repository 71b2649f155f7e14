package users

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/common"
	"github.com/dmitrijs2005/orbiter/internal/server/migrations"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, migrations.SQLiteDir))

	repo := NewSQLiteRepository(db)
	repo.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 500, time.UTC) }
	return repo
}

func TestSQLiteRepository_InsertAndFind(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	u, err := repo.Insert(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)
	assert.Positive(t, u.ID)
	assert.Equal(t, time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), u.CreatedAt)

	byName, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u, byName)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)
}

func TestSQLiteRepository_Duplicate(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.Insert(ctx, "alice", "alice@example.com", "hash")
	require.NoError(t, err)

	_, err = repo.Insert(ctx, "alice", "other@example.com", "hash2")
	assert.ErrorIs(t, err, common.ErrDuplicateUser)

	// same email, different username is allowed
	_, err = repo.Insert(ctx, "alice2", "alice@example.com", "hash3")
	assert.NoError(t, err)
}

func TestSQLiteRepository_NotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := repo.FindByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_ClosedDB(t *testing.T) {
	repo := newSQLiteRepo(t)
	require.NoError(t, repo.db.Close())

	_, err := repo.FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestSQLiteRepository_ConcurrentInserts(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Insert(ctx, fmt.Sprintf("user%02d", i), "u@example.com", "h")
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
