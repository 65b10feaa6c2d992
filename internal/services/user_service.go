package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/isdelr/yoga-collections-be/internal/models"
	"github.com/rs/zerolog/log"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, username, password string) (models.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserRepository is the persistence the user service needs.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// UserService provides business logic for user accounts.
type UserService struct {
	users  UserRepository
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new UserService.
func NewUserService(users UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// CreateUser validates the credentials, hashes the password and stores the
// account. A taken username yields common.ErrDuplicateUsername.
func (s *UserService) CreateUser(ctx context.Context, username, password string) (models.User, error) {
	username, err := validateCredentials(username, password)
	if err != nil {
		return models.User{}, err
	}
	if len(password) > maxPasswordBytes {
		return models.User{}, common.Validation("password must be at most 72 bytes")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return models.User{}, common.ErrDuplicateUsername
		}
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials. An unknown username and a
// wrong password are reported identically.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	username, err := validateCredentials(username, password)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return models.User{}, err
		}
		// keep the response time of unknown users close to a real compare
		_ = s.hasher.Compare(s.dummy(), password)
		return models.User{}, invalidCredentials()
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		log.Debug().Str("username", username).Msg("Password mismatch")
		return models.User{}, invalidCredentials()
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("not-a-real-password")
		if err != nil {
			log.Error().Err(err).Msg("Failed to prepare dummy password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func validateCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", common.Validation("username and password are required")
	}
	return username, nil
}

func invalidCredentials() error {
	return common.New(common.ErrInvalidCredentials, "invalid username or password")
}
