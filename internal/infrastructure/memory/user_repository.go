// Package memory holds map-backed repositories for tests and local tooling.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byEmail: make(map[string]*entity.User)}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) UpdateResetToken(_ context.Context, email string, token *string) error {
	return r.update(email, func(u *entity.User) {
		if token == nil {
			u.ResetToken = nil
			return
		}
		t := *token
		u.ResetToken = &t
	})
}

func (r *UserRepository) UpdatePassword(_ context.Context, email, hash string) error {
	return r.update(email, func(u *entity.User) {
		u.PasswordHash = hash
		u.ResetToken = nil
	})
}

func (r *UserRepository) ConsumeResetToken(_ context.Context, email, token, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok || u.ResetToken == nil || *u.ResetToken != token {
		return false, nil
	}
	u.PasswordHash = hash
	u.ResetToken = nil
	u.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *UserRepository) UpdateResumeURL(ctx context.Context, id, url string) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return r.update(u.Email, func(u *entity.User) { u.ResumeURL = url })
}

func (r *UserRepository) update(email string, fn func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
