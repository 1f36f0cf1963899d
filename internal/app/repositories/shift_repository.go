package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

var shiftColumns = []string{
	"id", "start_time", "end_time", "shift_type", "required_mentors", "required_staff",
	"created_at", "updated_at",
}

// ShiftRepository handles database operations for shifts
type ShiftRepository struct {
	db *pgxpool.Pool
}

// NewShiftRepository creates a new ShiftRepository
func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{db: pool}
}

func (r *ShiftRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanShift(row pgx.Row) (*models.Shift, error) {
	var s models.Shift
	err := row.Scan(
		&s.ID, &s.StartTime, &s.EndTime, &s.ShiftType, &s.RequiredMentors, &s.RequiredStaff,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new shift and fills in the generated fields
func (r *ShiftRepository) Create(ctx context.Context, q db.Querier, shift *models.Shift) error {
	sql, args, err := squirrel.Insert("shifts").
		Columns("start_time", "end_time", "shift_type", "required_mentors", "required_staff").
		Values(shift.StartTime, shift.EndTime, shift.ShiftType, shift.RequiredMentors, shift.RequiredStaff).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn(q).QueryRow(ctx, sql, args...).Scan(&shift.ID, &shift.CreatedAt, &shift.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create shift query")
		return err
	}
	return nil
}

// GetByID retrieves a shift by ID
func (r *ShiftRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.Shift, error) {
	sql, args, err := squirrel.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanShift(r.conn(q).QueryRow(ctx, sql, args...))
}

// Update rewrites the mutable fields of a shift
func (r *ShiftRepository) Update(ctx context.Context, q db.Querier, shift *models.Shift) error {
	sql, args, err := squirrel.Update("shifts").
		Set("start_time", shift.StartTime).
		Set("end_time", shift.EndTime).
		Set("shift_type", shift.ShiftType).
		Set("required_mentors", shift.RequiredMentors).
		Set("required_staff", shift.RequiredStaff).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": shift.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	tag, err := r.conn(q).Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("shiftID", shift.ID.String()).Msg("Error executing update shift query")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrShiftNotFound
	}
	return nil
}

// Delete removes a shift. The caller must have verified there are no
// assignments against it; the store also refuses via the foreign key.
func (r *ShiftRepository) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	tag, err := r.conn(q).Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrShiftNotFound
	}
	return nil
}

func (r *ShiftRepository) list(ctx context.Context, q db.Querier, b squirrel.SelectBuilder) ([]*models.Shift, error) {
	sql, args, err := b.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(q).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// List retrieves shifts with optional date range and type filters
func (r *ShiftRepository) List(ctx context.Context, q db.Querier, filter dto.ShiftFilter) ([]*models.Shift, error) {
	b := squirrel.Select(shiftColumns...).From("shifts").OrderBy("start_time ASC")
	if filter.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"end_time": *filter.EndDate})
	}
	if filter.ShiftType != nil {
		b = b.Where(squirrel.Eq{"shift_type": *filter.ShiftType})
	}
	return r.list(ctx, q, b)
}

// ListInWindow retrieves shifts whose whole window lies inside [lo, hi],
// ordered by start time. Schedule generation walks this list with a single
// round-robin cursor, so the ordering must be deterministic.
func (r *ShiftRepository) ListInWindow(ctx context.Context, q db.Querier, lo, hi time.Time) ([]*models.Shift, error) {
	return r.list(ctx, q, squirrel.Select(shiftColumns...).
		From("shifts").
		Where(squirrel.GtOrEq{"start_time": lo}).
		Where(squirrel.LtOrEq{"end_time": hi}).
		OrderBy("start_time ASC", "id ASC"))
}
