package repository

import (
	"context"
	"sync"

	"github.com/gopalbasak1/wind-house-management-server/internal/domain"

	"github.com/google/uuid"
)

// MemoryUsersRepo keeps users in insertion order (dev mode and tests).
type MemoryUsersRepo struct {
	mu    sync.RWMutex
	users []*domain.User
}

func NewMemoryUsersRepo() *MemoryUsersRepo {
	return &MemoryUsersRepo{}
}

var _ UsersRepository = (*MemoryUsersRepo)(nil)

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.Agreement != nil {
		snap := *u.Agreement
		c.Agreement = &snap
	}
	return &c
}

func (r *MemoryUsersRepo) find(pred func(*domain.User) bool) *domain.User {
	for _, u := range r.users {
		if pred(u) {
			return u
		}
	}
	return nil
}

func (r *MemoryUsersRepo) GetUser(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.find(func(u *domain.User) bool { return u.ID == userID })
	if u == nil {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryUsersRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u := r.find(func(u *domain.User) bool { return u.Email == email })
	if u == nil {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryUsersRepo) ListUsers(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, copyUser(u))
	}
	return out, nil
}

func (r *MemoryUsersRepo) CountUsers(_ context.Context, role string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if role == "" {
		return len(r.users), nil
	}
	n := 0
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *MemoryUsersRepo) CreateUser(_ context.Context, u *domain.User) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing := r.find(func(x *domain.User) bool { return x.Email == u.Email }); existing != nil {
		return existing.ID, false, nil
	}
	c := copyUser(u)
	c.ID = uuid.NewString()
	r.users = append(r.users, c)
	return c.ID, true, nil
}

func (r *MemoryUsersRepo) UpdateUser(_ context.Context, userID string, patch domain.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(func(u *domain.User) bool { return u.ID == userID })
	if u == nil {
		return ErrNotFound
	}
	applyUserPatch(u, patch)
	return nil
}

func (r *MemoryUsersRepo) UpdateUserByEmail(_ context.Context, email string, patch domain.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.find(func(u *domain.User) bool { return u.Email == email })
	if u == nil {
		return ErrNotFound
	}
	applyUserPatch(u, patch)
	return nil
}

func applyUserPatch(u *domain.User, patch domain.UserPatch) {
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.ImageURL != nil {
		u.ImageURL = *patch.ImageURL
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.Status != nil {
		u.Status = *patch.Status
	}
	if patch.Agreement != nil {
		snap := *patch.Agreement
		u.Agreement = &snap
	}
}
