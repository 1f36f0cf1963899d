package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rosterd/rosterd/internal/app/models"
	"github.com/rosterd/rosterd/internal/app/models/dto"
	"github.com/rosterd/rosterd/internal/app/repositories"
	"github.com/rosterd/rosterd/internal/db"
	"github.com/rosterd/rosterd/internal/pkg/apperrors"
	"github.com/rosterd/rosterd/internal/pkg/helpers"
	"github.com/rosterd/rosterd/internal/pkg/logger"
)

// defaultMonthlySwapLimit applies when the swap_monthly_limit setting is
// absent or unparsable.
const defaultMonthlySwapLimit = 3

// swapMonthlyLimitKey is the system setting overriding the monthly quota
const swapMonthlyLimitKey = "swap_monthly_limit"

// swapStore is the slice of the swap request repository the swap service needs
type swapStore interface {
	Create(ctx context.Context, q db.Querier, req *models.ShiftSwapRequest) error
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error)
	GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ShiftSwapRequest, error)
	UpdateStatus(ctx context.Context, q db.Querier, id uuid.UUID, status models.SwapStatus) error
	RecordDecision(ctx context.Context, q db.Querier, id uuid.UUID, status models.SwapStatus, adminID uuid.UUID, comment *string) error
	ExistsPendingTriple(ctx context.Context, q db.Querier, requesterID, requesterShiftID, targetID uuid.UUID) (bool, error)
	CountCreatedBetween(ctx context.Context, q db.Querier, requesterID uuid.UUID, start, end time.Time) (int, error)
	List(ctx context.Context, q db.Querier, filter repositories.SwapFilter) ([]*models.ShiftSwapRequest, error)
}

// swapUserStore resolves the parties of a swap request
type swapUserStore interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.User, error)
	ListAdmins(ctx context.Context, q db.Querier) ([]*models.User, error)
}

// swapAssignmentStore is the slice of the assignment repository swap
// approval needs
type swapAssignmentStore interface {
	GetByID(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error)
	GetByIDForUpdate(ctx context.Context, q db.Querier, id uuid.UUID) (*models.ScheduleAssignment, error)
	UpdateUserID(ctx context.Context, q db.Querier, id, userID uuid.UUID) error
}

// swapSettingReader reads the monthly quota override
type swapSettingReader interface {
	GetByKey(ctx context.Context, q db.Querier, key string) (*models.SystemSetting, error)
}

// SwapService drives the shift swap request lifecycle:
//
//	pending  -> accepted | rejected | cancelled
//	accepted -> approved | rejected
type SwapService struct {
	tx          txRunner
	users       swapUserStore
	assignments swapAssignmentStore
	swaps       swapStore
	settings    swapSettingReader
	notify      notifier

	// now is stubbed in tests to pin the quota window
	now func() time.Time
}

// NewSwapService creates a new swap service instance
func NewSwapService(tx txRunner, users swapUserStore, assignments swapAssignmentStore, swaps swapStore, settings swapSettingReader, notify notifier) *SwapService {
	return &SwapService{
		tx:          tx,
		users:       users,
		assignments: assignments,
		swaps:       swaps,
		settings:    settings,
		notify:      notify,
		now:         time.Now,
	}
}

// monthlyLimit resolves the per-user monthly request quota from system
// settings, falling back to the default when unset.
func (s *SwapService) monthlyLimit(ctx context.Context) int {
	setting, err := s.settings.GetByKey(ctx, nil, swapMonthlyLimitKey)
	if err != nil {
		return defaultMonthlySwapLimit
	}
	limit, err := strconv.Atoi(setting.Value)
	if err != nil || limit < 1 {
		logger.Warn().Str("value", setting.Value).Msg("Ignoring invalid swap_monthly_limit setting")
		return defaultMonthlySwapLimit
	}
	return limit
}

// CreateSwapRequest opens a new pending swap request. Only the requester
// themselves or an administrator acting on their behalf may create one.
func (s *SwapService) CreateSwapRequest(ctx context.Context, actor *models.User, req *dto.CreateSwapRequest) (*models.ShiftSwapRequest, error) {
	if actor.ID != req.RequesterID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("cannot create a swap request for another user")
	}

	requester, err := s.users.GetByID(ctx, nil, req.RequesterID)
	if err != nil {
		return nil, err
	}
	target, err := s.users.GetByID(ctx, nil, req.TargetID)
	if err != nil {
		return nil, err
	}

	requesterAssignment, err := s.assignments.GetByID(ctx, nil, req.RequesterShiftID)
	if err != nil {
		return nil, err
	}
	if requesterAssignment.UserID != requester.ID {
		return nil, apperrors.NewBadRequestError("assignment does not belong to the requester")
	}

	if req.TargetShiftID != nil {
		targetAssignment, err := s.assignments.GetByID(ctx, nil, *req.TargetShiftID)
		if err != nil {
			return nil, err
		}
		if targetAssignment.UserID != target.ID {
			return nil, apperrors.NewBadRequestError("assignment does not belong to the target user")
		}
	}

	duplicate, err := s.swaps.ExistsPendingTriple(ctx, nil, req.RequesterID, req.RequesterShiftID, req.TargetID)
	if err != nil {
		return nil, fmt.Errorf("error checking for duplicate request: %w", err)
	}
	if duplicate {
		return nil, apperrors.ErrDuplicateSwap
	}

	monthStart, monthEnd := helpers.MonthWindow(s.now())
	count, err := s.swaps.CountCreatedBetween(ctx, nil, req.RequesterID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("error counting monthly requests: %w", err)
	}
	if count >= s.monthlyLimit(ctx) {
		return nil, apperrors.ErrSwapLimitReached
	}

	swap := &models.ShiftSwapRequest{
		RequesterID:      req.RequesterID,
		RequesterShiftID: req.RequesterShiftID,
		TargetID:         req.TargetID,
		TargetShiftID:    req.TargetShiftID,
		Status:           models.SwapPending,
		Reason:           req.Reason,
	}
	if err := s.swaps.Create(ctx, nil, swap); err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, target.ID, models.NotificationSwapRequest,
		"New shift swap request",
		fmt.Sprintf("%s asked to swap a shift with you.", requester.Name),
		&swap.ID)

	return swap, nil
}

// Respond records the target user's accept or reject decision on a pending
// request. Administrators may respond on the target's behalf.
func (s *SwapService) Respond(ctx context.Context, actor *models.User, id uuid.UUID, response string) (*models.ShiftSwapRequest, error) {
	swap, err := s.swaps.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != swap.TargetID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the target user may respond to this request")
	}
	if swap.Status != models.SwapPending {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot respond to a %s request", swap.Status))
	}

	status := models.SwapStatus(response)
	if status != models.SwapAccepted && status != models.SwapRejected {
		return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "response must be accepted or rejected"}
	}

	if err := s.swaps.UpdateStatus(ctx, nil, id, status); err != nil {
		return nil, err
	}
	swap.Status = status

	verb := "rejected"
	if status == models.SwapAccepted {
		verb = "accepted"
	}
	s.notify.Notify(ctx, swap.RequesterID, models.NotificationSwapRequest,
		"Swap request "+verb,
		fmt.Sprintf("Your shift swap request was %s by the other party.", verb),
		&swap.ID)

	if status == models.SwapAccepted {
		admins, err := s.users.ListAdmins(ctx, nil)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load admins for swap approval notification")
			return swap, nil
		}
		for _, admin := range admins {
			s.notify.Notify(ctx, admin.ID, models.NotificationApproval,
				"Swap request awaiting approval",
				"An accepted shift swap request is waiting for review.",
				&swap.ID)
		}
	}

	return swap, nil
}

// Approve records the administrator's final decision on an accepted request.
// On approval the referenced assignments change hands atomically with the
// status update: an exchange when the request names two assignments, a
// one-way transfer to the target otherwise.
func (s *SwapService) Approve(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.ApproveSwapRequest) (*models.ShiftSwapRequest, error) {
	status := models.SwapStatus(req.Approval)
	if status != models.SwapApproved && status != models.SwapRejected {
		return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: "approval must be approved or rejected"}
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only administrators may approve swap requests")
	}

	var swap *models.ShiftSwapRequest
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		swap, err = s.swaps.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if swap.Status != models.SwapAccepted {
			return apperrors.NewInvalidStateError(fmt.Sprintf("cannot approve a %s request", swap.Status))
		}

		if status == models.SwapApproved {
			requesterAssignment, err := s.assignments.GetByIDForUpdate(ctx, tx, swap.RequesterShiftID)
			if err != nil {
				return err
			}

			if swap.TargetShiftID != nil {
				targetAssignment, err := s.assignments.GetByIDForUpdate(ctx, tx, *swap.TargetShiftID)
				if err != nil {
					return err
				}
				if err := s.assignments.UpdateUserID(ctx, tx, requesterAssignment.ID, swap.TargetID); err != nil {
					return err
				}
				if err := s.assignments.UpdateUserID(ctx, tx, targetAssignment.ID, swap.RequesterID); err != nil {
					return err
				}
			} else {
				if err := s.assignments.UpdateUserID(ctx, tx, requesterAssignment.ID, swap.TargetID); err != nil {
					return err
				}
			}
		}

		return s.swaps.RecordDecision(ctx, tx, id, status, actor.ID, req.Comment)
	})
	if err != nil {
		return nil, err
	}

	swap.Status = status
	swap.AdminID = &actor.ID
	swap.AdminComment = req.Comment

	verb := "rejected"
	if status == models.SwapApproved {
		verb = "approved"
	}
	title := "Swap request " + verb
	body := fmt.Sprintf("An administrator %s the shift swap request.", verb)
	if req.Comment != nil && *req.Comment != "" {
		body = fmt.Sprintf("%s Comment: %s", body, *req.Comment)
	}
	s.notify.Notify(ctx, swap.RequesterID, models.NotificationApproval, title, body, &swap.ID)
	s.notify.Notify(ctx, swap.TargetID, models.NotificationApproval, title, body, &swap.ID)

	return swap, nil
}

// Cancel withdraws a pending request. Only the requester, or an
// administrator, may cancel, and only while the request is still pending.
func (s *SwapService) Cancel(ctx context.Context, actor *models.User, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	swap, err := s.swaps.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != swap.RequesterID && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("only the requester may cancel this request")
	}
	if swap.Status != models.SwapPending {
		return nil, apperrors.NewInvalidStateError(fmt.Sprintf("cannot cancel a %s request", swap.Status))
	}

	if err := s.swaps.UpdateStatus(ctx, nil, id, models.SwapCancelled); err != nil {
		return nil, err
	}
	swap.Status = models.SwapCancelled
	return swap, nil
}

// GetSwapRequest retrieves a request; visible to its parties and admins only
func (s *SwapService) GetSwapRequest(ctx context.Context, actor *models.User, id uuid.UUID) (*models.ShiftSwapRequest, error) {
	swap, err := s.swaps.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if !swap.Involves(actor.ID) && !actor.IsAdmin() {
		return nil, apperrors.NewForbiddenError("not a party to this swap request")
	}
	return swap, nil
}

// ListSwapRequests retrieves requests with an optional status filter.
// Non-admin callers only see requests they are a party to.
func (s *SwapService) ListSwapRequests(ctx context.Context, actor *models.User, status *string) ([]*models.ShiftSwapRequest, error) {
	filter := repositories.SwapFilter{}
	if status != nil {
		parsed, err := models.ParseSwapStatus(*status)
		if err != nil {
			return nil, &apperrors.CustomError{Err: apperrors.ErrValidationFailed, Message: err.Error()}
		}
		filter.Status = &parsed
	}
	if !actor.IsAdmin() {
		filter.RelatedUser = &actor.ID
	}
	return s.swaps.List(ctx, nil, filter)
}

// ListUserSwapRequests retrieves every request a given user is a party to
func (s *SwapService) ListUserSwapRequests(ctx context.Context, userID uuid.UUID) ([]*models.ShiftSwapRequest, error) {
	if _, err := s.users.GetByID(ctx, nil, userID); err != nil {
		return nil, err
	}
	return s.swaps.List(ctx, nil, repositories.SwapFilter{RelatedUser: &userID})
}
