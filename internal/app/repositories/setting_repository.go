package repositories

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
)

var settingColumns = []string{"id", "key", "value", "description", "updated_by", "created_at", "updated_at"}

// SettingRepository handles database operations for system settings
type SettingRepository struct {
	db *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{db: pool}
}

func (r *SettingRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanSetting(row pgx.Row) (*models.SystemSetting, error) {
	var s models.SystemSetting
	err := row.Scan(&s.ID, &s.Key, &s.Value, &s.Description, &s.UpdatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List retrieves all system settings ordered by key
func (r *SettingRepository) List(ctx context.Context, q db.Querier) ([]*models.SystemSetting, error) {
	sql, args, err := squirrel.Select(settingColumns...).
		From("system_settings").
		OrderBy("key ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(q).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetByKey retrieves a setting by its unique key
func (r *SettingRepository) GetByKey(ctx context.Context, q db.Querier, key string) (*models.SystemSetting, error) {
	sql, args, err := squirrel.Select(settingColumns...).
		From("system_settings").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanSetting(r.conn(q).QueryRow(ctx, sql, args...))
}

// Upsert inserts a setting or updates the existing row for the same key
func (r *SettingRepository) Upsert(ctx context.Context, q db.Querier, s *models.SystemSetting) error {
	err := r.conn(q).QueryRow(ctx,
		`INSERT INTO system_settings (key, value, description, updated_by)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value,
		     description = COALESCE(EXCLUDED.description, system_settings.description),
		     updated_by = EXCLUDED.updated_by,
		     updated_at = now()
		 RETURNING id, created_at, updated_at`,
		s.Key, s.Value, s.Description, s.UpdatedBy).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return err
}
