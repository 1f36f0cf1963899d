package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

// userColumns are the columns scanned into models.User, in order
var userColumns = []string{
	"id", "username", "password_hash", "name", "email", "phone", "role",
	"is_trainee", "mentor_id", "trainee_end_date", "is_active", "created_at", "updated_at",
}

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

// conn picks the ambient transaction when one is supplied, the pool otherwise
func (r *UserRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Phone, &u.Role,
		&u.IsTrainee, &u.MentorID, &u.TraineeEndDate, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and fills in the generated fields
func (r *UserRepository) Create(ctx context.Context, q db.Querier, user *models.User) error {
	sql, args, err := squirrel.Insert("users").
		Columns("username", "password_hash", "name", "email", "phone", "role",
			"is_trainee", "mentor_id", "trainee_end_date", "is_active").
		Values(user.Username, user.PasswordHash, user.Name, user.Email, user.Phone, user.Role,
			user.IsTrainee, user.MentorID, user.TraineeEndDate, user.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn(q).QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("username", user.Username).Msg("Error executing create user query")
		return err
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanUser(r.conn(q).QueryRow(ctx, sql, args...))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, q db.Querier, username string) (*models.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"username": username}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanUser(r.conn(q).QueryRow(ctx, sql, args...))
}

// UsernameExists checks whether a username is already taken
func (r *UserRepository) UsernameExists(ctx context.Context, q db.Querier, username string) (bool, error) {
	var exists bool
	err := r.conn(q).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// EmailExists checks whether an email is already taken
func (r *UserRepository) EmailExists(ctx context.Context, q db.Querier, email string) (bool, error) {
	var exists bool
	err := r.conn(q).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// Update rewrites the mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, q db.Querier, user *models.User) error {
	sql, args, err := squirrel.Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("phone", user.Phone).
		Set("password_hash", user.PasswordHash).
		Set("role", user.Role).
		Set("is_trainee", user.IsTrainee).
		Set("mentor_id", user.MentorID).
		Set("trainee_end_date", user.TraineeEndDate).
		Set("is_active", user.IsActive).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.conn(q).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", user.ID.String()).Msg("Error executing update user query")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Notifications and assignments cascade with it.
func (r *UserRepository) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	tag, err := r.conn(q).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) list(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) ([]*models.User, error) {
	sql, args, err := b.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(q).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// List retrieves users with offset/limit paging
func (r *UserRepository) List(ctx context.Context, q db.Querier, offset, limit int) ([]*models.User, error) {
	return r.list(ctx, q, squirrel.Select(userColumns...).
		From("users").
		OrderBy("created_at ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit)))
}

// ListActive retrieves all active users in creation order. Schedule
// generation depends on this ordering being stable.
func (r *UserRepository) ListActive(ctx context.Context, q db.Querier) ([]*models.User, error) {
	return r.list(ctx, q, squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("created_at ASC", "id ASC"))
}

// ListAdmins retrieves all administrator users
func (r *UserRepository) ListAdmins(ctx context.Context, q db.Querier) ([]*models.User, error) {
	return r.list(ctx, q, squirrel.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"role": models.RoleAdmin}))
}
