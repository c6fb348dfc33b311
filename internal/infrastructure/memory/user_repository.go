// Package memory provides an in-memory UserRepository used by tests and
// local development. It mirrors the Postgres implementation's semantics,
// including atomic password+reset-token replacement.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mwikya/authd/internal/domain/entity"
	"github.com/mwikya/authd/internal/domain/repository"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*entity.User // keyed by id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, email, hashedPassword string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	u := &entity.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetBySessionToken(_ context.Context, token string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool {
		return u.SessionToken != nil && *u.SessionToken == token
	})
}

func (r *UserRepository) GetByResetToken(_ context.Context, token string) (*entity.User, error) {
	return r.findBy(func(u *entity.User) bool {
		return u.ResetToken != nil && *u.ResetToken == token
	})
}

func (r *UserRepository) SetSessionToken(_ context.Context, id string, token *string) error {
	return r.mutate(id, func(u *entity.User) {
		u.SessionToken = cloneToken(token)
	})
}

func (r *UserRepository) SetResetToken(_ context.Context, id string, token *string) error {
	return r.mutate(id, func(u *entity.User) {
		u.ResetToken = cloneToken(token)
	})
}

func (r *UserRepository) ReplacePassword(_ context.Context, id, hashedPassword string) error {
	return r.mutate(id, func(u *entity.User) {
		u.HashedPassword = hashedPassword
		u.ResetToken = nil
	})
}

func (r *UserRepository) findBy(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) mutate(id string, apply func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	apply(u)
	u.UpdatedAt = time.Now()
	return nil
}

// cloneUser keeps callers from mutating shared state through the returned pointer.
func cloneUser(u *entity.User) *entity.User {
	cp := *u
	cp.SessionToken = cloneToken(u.SessionToken)
	cp.ResetToken = cloneToken(u.ResetToken)
	return &cp
}

func cloneToken(t *string) *string {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

var _ repository.UserRepository = (*UserRepository)(nil)
