package store

import (
	"context"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/isdelr/yoga-collections-be/internal/models"
)

// UserStore persists user accounts.
type UserStore struct {
	db  database.DBTX
	now func() time.Time
}

// NewUserStore creates a new UserStore.
func NewUserStore(db database.DBTX) *UserStore {
	return &UserStore{db: db, now: utcNow}
}

// Create inserts a user with an already hashed password. A taken username
// yields common.ErrConflict and leaves the existing row untouched.
func (s *UserStore) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	user := models.User{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    s.now(),
	}

	const query = `INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id`
	if err := s.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt).Scan(&user.ID); err != nil {
		return models.User{}, classify("create user", err)
	}
	return user, nil
}

// GetByUsername retrieves a user, including the password hash.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	const query = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`
	var user models.User
	err := s.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return models.User{}, classify("get user", err)
	}
	return user, nil
}
