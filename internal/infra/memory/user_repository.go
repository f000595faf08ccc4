package memory

import (
	"context"
	"sync"

	"globetrotter-service/internal/domain"
)

// UserRepository is an in-memory implementation of app.UserRepository. The
// mutex serializes counter updates, so increments cannot interleave.
type UserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	byCode map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[string]domain.User),
		byCode: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = user
	r.byCode[user.ReferralCode] = user.Username
	return nil
}

func (r *UserRepository) ByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) ByReferralCode(_ context.Context, code string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	username, ok := r.byCode[code]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.users[username], nil
}

func (r *UserRepository) IncrementScore(_ context.Context, username string, correct bool) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if correct {
		user.Correct++
	} else {
		user.Incorrect++
	}
	r.users[username] = user
	return user, nil
}
