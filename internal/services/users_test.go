package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

func TestRegister(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Users.Register(context.Background(), models.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "password1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User.Email)
	assert.Equal(t, 1, resp.User.Level)
	assert.NotEqual(t, "password1", resp.User.Password)

	userID, err := f.svc.Users.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)
}

func TestRegisterConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, err := f.svc.Users.Register(ctx, models.RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "email already registered", err.Error(), "email is checked first")

	_, err = f.svc.Users.Register(ctx, models.RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password1"})
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, "username already taken", err.Error())

	var count int64
	require.NoError(t, f.deps.DB.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Users.Register(context.Background(), models.RegisterRequest{Username: "al", Email: "x", Password: "1"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "bob")

	resp, err := f.svc.Users.Login(ctx, models.LoginRequest{Email: "bob@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	for name, req := range map[string]models.LoginRequest{
		"wrong password": {Email: "bob@example.com", Password: "password2"},
		"unknown email":  {Email: "nobody@example.com", Password: "password1"},
		"empty":          {},
	} {
		resp, err := f.svc.Users.Login(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, name)
		assert.Nil(t, resp, name)
	}
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "carol")

	got, err := f.svc.Users.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", got.Username)

	_, err = f.svc.Users.GetUser(context.Background(), missingID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
