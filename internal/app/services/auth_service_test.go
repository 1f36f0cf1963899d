package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserStore) {
	t.Helper()
	store := newFakeUserStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "rosterd-test",
	})
	return NewAuthService(store, jwtService), store
}

func addAccount(t *testing.T, store *fakeUserStore, username, password string, active bool) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return store.add(&models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         username,
		Role:         models.RoleDayShift,
		IsActive:     active,
	})
}

func TestAuthServiceLogin(t *testing.T) {
	svc, store := newAuthFixture(t)
	account := addAccount(t, store, "alice", "sup3rsecret", true)

	user, token, expiresIn, err := svc.Login(context.Background(), "alice", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, account.ID, user.ID)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)
}

func TestAuthServiceLoginBadCredentials(t *testing.T) {
	svc, store := newAuthFixture(t)
	addAccount(t, store, "alice", "sup3rsecret", true)

	// Wrong password and unknown user fail the same way
	_, _, _, err := svc.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, _, err = svc.Login(context.Background(), "nobody", "sup3rsecret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	svc, store := newAuthFixture(t)
	addAccount(t, store, "alice", "sup3rsecret", false)

	_, _, _, err := svc.Login(context.Background(), "alice", "sup3rsecret")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}
