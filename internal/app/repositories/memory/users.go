package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

var now = func() time.Time { return time.Now().UTC() }

type userRepository struct {
	db *DB
}

// insertUser stores a copy of user and assigns its id; callers hold the write lock
func (db *DB) insertUser(user *models.User) error {
	for _, u := range db.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	user.ID = db.nextID()
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	db.users[user.ID] = &cp
	return nil
}

func (r *userRepository) Create(_ context.Context, user *models.User) error {
	r.db.Lock()
	defer r.db.Unlock()
	return r.db.insertUser(user)
}

func (r *userRepository) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	for _, u := range r.db.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *userRepository) Update(_ context.Context, user *models.User) error {
	r.db.Lock()
	defer r.db.Unlock()

	existing, ok := r.db.users[user.ID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for _, u := range r.db.users {
		if u.ID != user.ID && u.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}

	user.UpdatedAt = now()
	cp := *user
	cp.Password = existing.Password
	cp.CreatedAt = existing.CreatedAt
	cp.LastLoginAt = existing.LastLoginAt
	r.db.users[user.ID] = &cp
	return nil
}

func (r *userRepository) SetPassword(_ context.Context, id int64, hash string) error {
	r.db.Lock()
	defer r.db.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.Password = hash
	u.UpdatedAt = now()
	return nil
}

func (r *userRepository) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.db.Lock()
	defer r.db.Unlock()

	if u, ok := r.db.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (r *userRepository) List(_ context.Context) ([]*models.User, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	users := make([]*models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

type tokenRepository struct {
	db *DB
}

func (r *tokenRepository) GetOrCreate(_ context.Context, userID int64, newKey string) (*models.AuthToken, error) {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.users[userID]; !ok {
		return nil, apperrors.ErrUserNotFound
	}
	for _, t := range r.db.tokens {
		if t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	t := &models.AuthToken{Key: newKey, UserID: userID, CreatedAt: now()}
	r.db.tokens[newKey] = t
	cp := *t
	return &cp, nil
}

func (r *tokenRepository) GetByKey(_ context.Context, key string) (*models.AuthToken, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if t, ok := r.db.tokens[key]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (r *tokenRepository) DeleteByUserID(_ context.Context, userID int64) error {
	r.db.Lock()
	defer r.db.Unlock()

	for k, t := range r.db.tokens {
		if t.UserID == userID {
			delete(r.db.tokens, k)
		}
	}
	return nil
}
