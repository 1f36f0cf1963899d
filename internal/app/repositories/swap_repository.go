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

var swapColumns = []string{
	"id", "requester_id", "requester_shift_id", "target_id", "target_shift_id",
	"status", "reason", "admin_id", "admin_comment", "created_at", "updated_at",
}

// SwapFilter narrows swap request listings
type SwapFilter struct {
	Status      *models.SwapStatus
	RelatedUser *uuid.UUID // matches requester or target
}

// SwapRequestRepository handles database operations for shift swap requests
type SwapRequestRepository struct {
	db *pgxpool.Pool
}

// NewSwapRequestRepository creates a new SwapRequestRepository
func NewSwapRequestRepository(pool *pgxpool.Pool) *SwapRequestRepository {
	return &SwapRequestRepository{db: pool}
}

func (r *SwapRequestRepository) conn(q db.Querier) db.Querier {
	if q != nil {
		return q
	}
	return r.db
}

func scanSwapRequest(row pgx.Row) (*models.ShiftSwapRequest, error) {
	var s models.ShiftSwapRequest
	err := row.Scan(
		&s.ID, &s.RequesterID, &s.RequesterShiftID, &s.TargetID, &s.TargetShiftID,
		&s.Status, &s.Reason, &s.AdminID, &s.AdminComment, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSwapRequestNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Create inserts a new swap request in pending state. A concurrent identical
// submission trips the partial unique index and surfaces as ErrDuplicateSwap.
func (r *SwapRequestRepository) Create(ctx context.Context, q db.Querier, req *models.ShiftSwapRequest) error {
	sql, args, err := squirrel.Insert("shift_swap_requests").
		Columns("requester_id", "requester_shift_id", "target_id", "target_shift_id", "status", "reason").
		Values(req.RequesterID, req.RequesterShiftID, req.TargetID, req.TargetShiftID, req.Status, req.Reason).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = r.conn(q).QueryRow(ctx, sql, args...).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateSwap
		}
		logger.Error().Err(err).Msg("Error executing create swap request query")
		return err
	}
	return nil
}

// GetByID retrieves a swap request by ID
func (r *SwapRequestRepository) GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	sql, args, err := squirrel.Select(swapColumns...).
		From("shift_swap_requests").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanSwapRequest(r.conn(q).QueryRow(ctx, sql, args...))
}

// GetByIDForUpdate retrieves a swap request and takes a row lock on it.
// Must run inside a transaction.
func (r *SwapRequestRepository) GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	sql, args, err := squirrel.Select(swapColumns...).
		From("shift_swap_requests").
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	return scanSwapRequest(r.conn(q).QueryRow(ctx, sql, args...))
}

// UpdateStatus moves a request to a new lifecycle state
func (r *SwapRequestRepository) UpdateStatus(ctx context.Context, q db.Querier, id uuid.UUID, status models.SwapStatus) error {
	tag, err := r.conn(q).Exec(ctx,
		`UPDATE shift_swap_requests SET status = $1, updated_at = now() WHERE id = $2`,
		status, id)
	if err != nil {
		logger.Error().Err(err).Str("requestID", id.String()).Msg("Error updating swap request status")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSwapRequestNotFound
	}
	return nil
}

// RecordDecision moves a request to its final state and records the acting
// administrator and their comment.
func (r *SwapRequestRepository) RecordDecision(ctx context.Context, q db.Querier, id uuid.UUID, status models.SwapStatus, adminID uuid.UUID, comment *string) error {
	tag, err := r.conn(q).Exec(ctx,
		`UPDATE shift_swap_requests SET status = $1, admin_id = $2, admin_comment = $3, updated_at = now() WHERE id = $4`,
		status, adminID, comment, id)
	if err != nil {
		logger.Error().Err(err).Str("requestID", id.String()).Msg("Error recording swap request decision")
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSwapRequestNotFound
	}
	return nil
}

// ExistsPendingTriple checks for another pending request with the identical
// (requester, requester assignment, target) triple.
func (r *SwapRequestRepository) ExistsPendingTriple(ctx context.Context, q db.Querier, requesterID, requesterShiftID, targetID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(q).QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM shift_swap_requests
			WHERE requester_id = $1 AND requester_shift_id = $2 AND target_id = $3 AND status = $4
		)`,
		requesterID, requesterShiftID, targetID, models.SwapPending).Scan(&exists)
	return exists, err
}

// CountCreatedBetween counts requests a user created in [start, end),
// regardless of their current status. Backs the monthly quota.
func (r *SwapRequestRepository) CountCreatedBetween(ctx context.Context, q db.Querier, requesterID uuid.UUID, start, end time.Time) (int, error) {
	var count int
	err := r.conn(q).QueryRow(ctx,
		`SELECT COUNT(*) FROM shift_swap_requests
		 WHERE requester_id = $1 AND created_at >= $2 AND created_at < $3`,
		requesterID, start, end).Scan(&count)
	return count, err
}

// DeleteByAssignment removes every swap request referencing the given
// assignment as either side. Called before an assignment is deleted so no
// request is left pointing at a missing row, even against a store without
// enforced foreign keys.
func (r *SwapRequestRepository) DeleteByAssignment(ctx context.Context, q db.Querier, assignmentID uuid.UUID) error {
	_, err := r.conn(q).Exec(ctx,
		`DELETE FROM shift_swap_requests WHERE requester_shift_id = $1 OR target_shift_id = $1`,
		assignmentID)
	return err
}

// List retrieves swap requests with optional status and related-user filters
func (r *SwapRequestRepository) List(ctx context.Context, q db.Querier, filter SwapFilter) ([]*models.ShiftSwapRequest, error) {
	b := squirrel.Select(swapColumns...).
		From("shift_swap_requests").
		OrderBy("created_at DESC")

	if filter.Status != nil {
		b = b.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RelatedUser != nil {
		b = b.Where(squirrel.Or{
			squirrel.Eq{"requester_id": *filter.RelatedUser},
			squirrel.Eq{"target_id": *filter.RelatedUser},
		})
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

	var requests []*models.ShiftSwapRequest
	for rows.Next() {
		req, err := scanSwapRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
