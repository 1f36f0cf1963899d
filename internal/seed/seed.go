package seed

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/rosterd/rosterd/internal/app/models"
	appRepos "github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/pkg/auth"
)

// CreateDefaultData creates the default administrator account when the users
// table is empty, so a fresh deployment can be logged into.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	users, err := userRepo.List(ctx, nil, 0, 1)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_DEFAULT_PASSWORD")
	if password == "" {
		password = "changeme123"
		lgr.Warn().Msg("ADMIN_DEFAULT_PASSWORD not set, using the built-in default; change it immediately")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &appModels.User{
		Username:     "admin",
		PasswordHash: hash,
		Name:         "Administrator",
		Email:        "admin@rosterd.local",
		Role:         appModels.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, nil, admin); err != nil {
		return err
	}

	lgr.Info().Str("username", admin.Username).Msg("Default administrator account created")
	return nil
}
