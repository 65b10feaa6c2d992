package services

import (
	"context"
	"strings"
	"testing"

	"github.com/isdelr/yoga-collections-be/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_CreateThenAuthenticate(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "  alice ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.Empty(t, created.PasswordHash)

	got, err := s.AuthenticateUser(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Empty(t, got.PasswordHash)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice", "first")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "second")
	require.ErrorIs(t, err, common.ErrDuplicateUsername)
	assert.ErrorIs(t, err, common.ErrConflict)

	// the original password still works, the second never took effect
	_, err = s.AuthenticateUser(ctx, "alice", "first")
	require.NoError(t, err)
	_, err = s.AuthenticateUser(ctx, "alice", "second")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestUserService_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, wrongPassword := s.AuthenticateUser(ctx, "alice", "nope")
	_, unknownUser := s.AuthenticateUser(ctx, "bob", "nope")

	require.ErrorIs(t, wrongPassword, common.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, common.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUserService_Validation(t *testing.T) {
	s := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"blank username", "   ", "pw"},
		{"empty password", "alice", ""},
		{"password too long", "alice", strings.Repeat("x", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}

	_, err := s.AuthenticateUser(ctx, "", "pw")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = s.CreateUser(ctx, "alice", strings.Repeat("x", 72))
	assert.NoError(t, err)
}
