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
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

var assignmentColumns = []string{
	"id", "user_id", "shift_id", "is_primary", "created_at", "updated_at",
}

// AssignmentFilter narrows assignment listings
type AssignmentFilter struct {
	UserID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// AssignmentRepository handles database operations for schedule assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: pool}
}

func (r *AssignmentRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanAssignment(row pgx.Row) (*models.ScheduleAssignment, error) {
	var a models.ScheduleAssignment
	err := row.Scan(&a.ID, &a.UserID, &a.ShiftID, &a.IsPrimary, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts a new assignment and fills in the generated fields.
// A duplicate (user, shift) pair surfaces as ErrAssignmentExists.
func (r *AssignmentRepository) Create(ctx context.Context, q db.Querier, a *models.ScheduleAssignment) error {
	sql, args, err := squirrel.Insert("schedule_assignments").
		Columns("user_id", "shift_id", "is_primary").
		Values(a.UserID, a.ShiftID, a.IsPrimary).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn(q).QueryRow(ctx, sql, args...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAssignmentExists
		}
		logger.Error().Err(err).Msg("Error executing create assignment query")
		return err
	}
	return nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error) {
	sql, args, err := squirrel.Select(assignmentColumns...).
		From("schedule_assignments").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanAssignment(r.conn(q).QueryRow(ctx, sql, args...))
}

// GetByIDForUpdate retrieves an assignment and takes a row lock on it. Must
// run inside a transaction; the lock is what keeps two concurrent swap
// approvals from exchanging already-exchanged rows.
func (r *AssignmentRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error) {
	sql, args, err := squirrel.Select(assignmentColumns...).
		From("schedule_assignments").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanAssignment(r.conn(q).QueryRow(ctx, sql, args...))
}

// ExistsByUserAndShift checks for an existing (user, shift) pairing
func (r *AssignmentRepository) ExistsByUserAndShift(ctx context.Context, q db.Querier, userID, shiftID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(q).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schedule_assignments WHERE user_id = $1 AND shift_id = $2)`,
		userID, shiftID).Scan(&exists)
	return exists, err
}

// CountByShift counts assignments attached to a shift
func (r *AssignmentRepository) CountByShift(ctx context.Context, q db.Querier, shiftID uuid.UUID) (int, error) {
	var count int
	err := r.conn(q).QueryRow(ctx,
		`SELECT COUNT(*) FROM schedule_assignments WHERE shift_id = $1`, shiftID).Scan(&count)
	return count, err
}

// UpdateUserID reassigns an assignment to another user
func (r *AssignmentRepository) UpdateUserID(ctx context.Context, q db.Querier, id, userID uuid.UUID) error {
	tag, err := r.conn(q).Exec(ctx,
		`UPDATE schedule_assignments SET user_id = $1, updated_at = now() WHERE id = $2`,
		userID, id)
	if err != nil {
		logger.Error().Err(err).Str("assignmentID", id.String()).Msg("Error reassigning assignment")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// Delete removes a single assignment
func (r *AssignmentRepository) Delete(ctx context.Context, q db.Querier, id uuid.UUID) error {
	tag, err := r.conn(q).Exec(ctx, `DELETE FROM schedule_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAssignmentNotFound
	}
	return nil
}

// DeleteByShiftIDs removes every assignment belonging to the given shifts.
// Used by schedule generation's full-replacement pass.
func (r *AssignmentRepository) DeleteByShiftIDs(ctx context.Context, q db.Querier, shiftIDs []uuid.UUID) (int64, error) {
	if len(shiftIDs) == 0 {
		return 0, nil
	}

	sql, args, err := squirrel.Delete("schedule_assignments").
		Where(squirrel.Eq{"shift_id": shiftIDs}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.conn(q).Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// List retrieves assignments with optional user and shift-window filters.
// Window filters join against the shifts table.
func (r *AssignmentRepository) List(ctx context.Context, q db.Querier, filter AssignmentFilter) ([]*models.ScheduleAssignment, error) {
	b := squirrel.Select(
		"sa.id", "sa.user_id", "sa.shift_id", "sa.is_primary", "sa.created_at", "sa.updated_at",
	).From("schedule_assignments sa").
		Join("shifts s ON sa.shift_id = s.id").
		OrderBy("s.start_time ASC", "sa.created_at ASC")

	if filter.UserID != nil {
		b = b.Where(squirrel.Eq{"sa.user_id": *filter.UserID})
	}
	if filter.StartDate != nil {
		b = b.Where(squirrel.GtOrEq{"s.start_time": *filter.StartDate})
	}
	if filter.EndDate != nil {
		b = b.Where(squirrel.LtOrEq{"s.end_time": *filter.EndDate})
	}

	sql, args, err := b.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(q).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []*models.ScheduleAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
