// Package memory provides an in-process principal store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/upb/secure-access-gateway/models"
	"github.com/upb/secure-access-gateway/repositories"
)

// UserRepository keeps users in a map guarded by a read-write lock
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewUserRepository creates a repository pre-populated with users
func NewUserRepository(users ...*models.User) *UserRepository {
	r := &UserRepository{users: make(map[string]*models.User, len(users))}
	for _, u := range users {
		r.users[u.Username] = cloneUser(u)
	}
	return r
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", repositories.ErrNotFound, username)
	}
	return cloneUser(user), nil
}

// Create stores a new user
func (r *UserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return fmt.Errorf("%w: user %s", repositories.ErrAlreadyExists, user.Username)
	}
	r.users[user.Username] = cloneUser(user)
	return nil
}

// Count returns the number of stored users
func (r *UserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}
