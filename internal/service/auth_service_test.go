package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"softdesk/internal/apperr"
	"softdesk/internal/util"
)

const testSecret = "test-secret"

func registerInput(username string) RegisterInput {
	return RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct horse",
		DateOfBirth: time.Date(1990, time.March, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a usable token", func(t *testing.T) {
		svc := NewAuthService(newMemStore(), testSecret)
		u, token, err := svc.Register(ctx, registerInput("alice"))
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.NotEmpty(t, u.PasswordHash)

		id, err := util.ParseJWT(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, u.ID, id)
	})

	t.Run("under 15 is rejected", func(t *testing.T) {
		svc := NewAuthService(newMemStore(), testSecret)
		in := registerInput("kid")
		in.DateOfBirth = time.Now().AddDate(-14, 0, 0)
		_, _, err := svc.Register(ctx, in)
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := NewAuthService(newMemStore(), testSecret)
		in := registerInput("alice")
		in.Password = "short"
		_, _, err := svc.Register(ctx, in)
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		svc := NewAuthService(newMemStore(), testSecret)
		_, _, err := svc.Register(ctx, registerInput("alice"))
		require.NoError(t, err)
		_, _, err = svc.Register(ctx, registerInput("alice"))
		assert.True(t, apperr.IsValidation(err), "got %v", err)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewAuthService(store, testSecret)

	registered, _, err := svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		token, err := svc.Login(ctx, "alice", "correct horse")
		require.NoError(t, err)
		id, err := util.ParseJWT(token, testSecret)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, id)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "wrong")
		assert.True(t, apperr.IsForbidden(err), "got %v", err)
	})

	t.Run("unknown username gets the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "correct horse")
		assert.True(t, apperr.IsForbidden(err), "got %v", err)
	})
}

func TestUpdateConsents(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewAuthService(store, testSecret)

	u, _, err := svc.Register(ctx, registerInput("alice"))
	require.NoError(t, err)
	assert.False(t, u.CanBeContacted)

	require.NoError(t, svc.UpdateConsents(ctx, u.ID, true, false))

	got, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.CanBeContacted)
	assert.False(t, got.CanDataBeShared)
}
