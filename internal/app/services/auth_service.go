package services

import (
	"context"
	"fmt"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/auth"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

// authUserStore is the slice of the user store the auth service needs
type authUserStore interface {
	GetByUsername(ctx context.Context, q db.Querier, username string) (*models.User, error)
}

// AuthService handles authentication
type AuthService struct {
	users authUserStore
	jwt   *auth.JWTService
}

// NewAuthService creates a new auth service instance
func NewAuthService(users authUserStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Login verifies credentials and issues an access token. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, int, error) {
	user, err := s.users.GetByUsername(ctx, nil, username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return nil, "", 0, apperrors.ErrInvalidCredentials
		}
		return nil, "", 0, fmt.Errorf("error looking up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", 0, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", 0, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwt.GenerateToken(user)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("Failed to generate access token")
		return nil, "", 0, fmt.Errorf("error generating token: %w", err)
	}

	return user, token, expiresIn, nil
}
