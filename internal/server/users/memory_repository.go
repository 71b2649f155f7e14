package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/orbiter/internal/common"
)

// MemoryRepository keeps users in process memory. Used for development and
// tests; contents are lost on restart.
type MemoryRepository struct {
	mu         sync.RWMutex
	nextID     int64
	byID       map[int64]User
	byUsername map[string]int64
	now        func() time.Time
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[int64]User),
		byUsername: make(map[string]int64),
		now:        time.Now,
	}
}

func (r *MemoryRepository) Insert(_ context.Context, username, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[username]; ok {
		return nil, common.ErrDuplicateUser
	}

	r.nextID++
	now := r.now().UTC()
	u := User{
		ID:           r.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	r.byUsername[username] = u.ID

	return &u, nil
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}
